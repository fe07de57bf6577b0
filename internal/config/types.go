package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig 描述进程级运行参数：日志、缓存目录、上游接口与服务端口。
type GlobalConfig struct {
	LogLevel        string   `mapstructure:"LogLevel"`
	LogFilePath     string   `mapstructure:"LogFilePath"`
	LogMaxSize      int      `mapstructure:"LogMaxSize"`
	LogMaxBackups   int      `mapstructure:"LogMaxBackups"`
	LogCompress     bool     `mapstructure:"LogCompress"`
	StoragePath     string   `mapstructure:"StoragePath"`
	ListenPort      int      `mapstructure:"ListenPort"`
	UpstreamTimeout Duration `mapstructure:"UpstreamTimeout"`
	ShortenEndpoint string   `mapstructure:"ShortenEndpoint"`
	HistoryLimit    int      `mapstructure:"HistoryLimit"`
	Concurrency     int      `mapstructure:"Concurrency"`
	DebugLogs       bool     `mapstructure:"DebugLogs"`
	TracingEnabled  bool     `mapstructure:"TracingEnabled"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
}

// Summary 输出启动日志使用的配置摘要，不包含日志文件之外的路径细节。
func (c *Config) Summary() map[string]any {
	return map[string]any{
		"storage_path":     c.Global.StoragePath,
		"shorten_endpoint": c.Global.ShortenEndpoint,
		"history_limit":    c.Global.HistoryLimit,
		"concurrency":      c.Global.Concurrency,
		"upstream_timeout": c.Global.UpstreamTimeout.DurationValue().String(),
		"debug_logs":       c.Global.DebugLogs,
		"tracing":          c.Global.TracingEnabled,
	}
}
