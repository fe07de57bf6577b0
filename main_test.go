package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCLIFlagsPriority(t *testing.T) {
	t.Setenv("URL_SHORTENER_CONFIG", "/tmp/env.toml")

	opts, err := parseCLIFlags([]string{})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "/tmp/env.toml" {
		t.Fatalf("应优先使用环境变量，得到 %s", opts.configPath)
	}

	opts, err = parseCLIFlags([]string{"--config", "/tmp/flag.toml"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "/tmp/flag.toml" {
		t.Fatalf("flag 应高于环境变量，得到 %s", opts.configPath)
	}
}

func TestParseCLIFlagsDefaultsAndURLs(t *testing.T) {
	t.Setenv("URL_SHORTENER_CONFIG", "")

	opts, err := parseCLIFlags([]string{"https://a.example", "https://b.example"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "config.toml" {
		t.Fatalf("默认配置路径应为 config.toml，得到 %s", opts.configPath)
	}
	if len(opts.urls) != 2 {
		t.Fatalf("应解析出两个 URL，得到 %v", opts.urls)
	}
}

func TestParseCLIFlagsRejectsConflictingModes(t *testing.T) {
	if _, err := parseCLIFlags([]string{"-serve", "-clear"}); err == nil {
		t.Fatalf("互斥模式应返回错误")
	}
	if _, err := parseCLIFlags([]string{"-history", "https://go.dev"}); err == nil {
		t.Fatalf("history 与 URL 不应同时出现")
	}
}

func TestRunCheckConfigSuccess(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{configPath: configFixture(t, "valid.toml"), checkOnly: true})
	if code != 0 {
		t.Fatalf("期望退出码 0，得到 %d", code)
	}
}

func TestRunCheckConfigFailure(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{configPath: configFixture(t, "missing.toml"), checkOnly: true})
	if code == 0 {
		t.Fatalf("无效配置应返回非零退出码")
	}
}

func TestRunVersionOutput(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{showVersion: true})
	if code != 0 {
		t.Fatalf("version 模式应成功退出，得到 %d", code)
	}
	if !strings.Contains(stdOutBuffer().String(), "url-shortener") {
		t.Fatalf("version 输出应包含 url-shortener 标识")
	}
}

func TestRunShortenHistoryClear(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			URL string `json:"url"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"alias":  "1544093959",
			"_links": map[string]string{"self": payload.URL, "short": "https://sho.rt/api/alias/1544093959"},
		})
	}))
	t.Cleanup(upstream.Close)

	dir := t.TempDir()
	configPath := writeConfigFile(t, fmt.Sprintf(`
LogLevel = "error"
StoragePath = "%s"
ShortenEndpoint = "%s"
DebugLogs = true
TracingEnabled = true
`, filepath.Join(dir, "storage"), upstream.URL))

	useBufferWriters(t)
	if code := run(cliOptions{configPath: configPath, urls: []string{"https://go.dev"}}); code != 0 {
		t.Fatalf("缩短应成功，得到 %d (stderr=%s)", code, stdErrBuffer().String())
	}
	if !strings.Contains(stdOutBuffer().String(), "https://sho.rt/api/alias/1544093959") {
		t.Fatalf("输出应包含短链，得到 %s", stdOutBuffer().String())
	}
	if !strings.Contains(stdErrBuffer().String(), `"network.POST"`) {
		t.Fatalf("启用 tracing 时应导出 span，得到 %s", stdErrBuffer().String())
	}

	stdOutBuffer().Reset()
	if code := run(cliOptions{configPath: configPath, showHistory: true}); code != 0 {
		t.Fatalf("读取历史应成功，得到 %d", code)
	}
	if !strings.Contains(stdOutBuffer().String(), "https://go.dev") {
		t.Fatalf("历史应包含原始 URL，得到 %s", stdOutBuffer().String())
	}

	stdOutBuffer().Reset()
	if code := run(cliOptions{configPath: configPath, clearHistory: true}); code != 0 {
		t.Fatalf("清空历史应成功，得到 %d", code)
	}
	stdOutBuffer().Reset()
	if code := run(cliOptions{configPath: configPath, showHistory: true}); code != 0 {
		t.Fatalf("读取历史应成功，得到 %d", code)
	}
	if !strings.Contains(stdOutBuffer().String(), "no shortened urls yet") {
		t.Fatalf("清空后历史应为空，得到 %s", stdOutBuffer().String())
	}
}

func TestRunShortenInvalidURL(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfigFile(t, fmt.Sprintf(`
LogLevel = "error"
StoragePath = "%s"
`, filepath.Join(dir, "storage")))

	useBufferWriters(t)
	if code := run(cliOptions{configPath: configPath, urls: []string{"not-a-url"}}); code == 0 {
		t.Fatalf("非法 URL 应返回非零退出码")
	}
	if !strings.Contains(stdErrBuffer().String(), "invalid_input") {
		t.Fatalf("stderr 应包含 invalid_input，得到 %s", stdErrBuffer().String())
	}
}
