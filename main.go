package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/url-shortener/url-shortener/internal/cache"
	"github.com/url-shortener/url-shortener/internal/config"
	"github.com/url-shortener/url-shortener/internal/logging"
	"github.com/url-shortener/url-shortener/internal/network"
	"github.com/url-shortener/url-shortener/internal/server"
	"github.com/url-shortener/url-shortener/internal/shortener"
	"github.com/url-shortener/url-shortener/internal/telemetry"
	"github.com/url-shortener/url-shortener/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath   string
	checkOnly    bool
	showVersion  bool
	serve        bool
	showHistory  bool
	clearHistory bool
	urls         []string
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}
	defer logging.Close(logger)

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		for key, value := range cfg.Summary() {
			fields[key] = value
		}
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 启动顺序：配置 → 缓存 → 上游客户端 → Service，CLI 与 HTTP 入口共享同一个 Service。
	svc, shutdown, err := buildService(cfg, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化服务失败: %v\n", err)
		return 1
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn("tracer_shutdown_failed")
		}
	}()

	fields := logging.BaseFields("startup", opts.configPath)
	for key, value := range cfg.Summary() {
		fields[key] = value
	}
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	switch {
	case opts.serve:
		if err := startHTTPServer(ctx, cfg, svc, logger); err != nil {
			fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
			return 1
		}
		return 0
	case opts.clearHistory:
		if err := svc.Clear(ctx); err != nil {
			fmt.Fprintf(stdErr, "清空历史失败: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdOut, "history cleared")
		return 0
	case len(opts.urls) > 0:
		return shortenURLs(ctx, svc, opts.urls)
	default:
		return printHistory(ctx, svc)
	}
}

// buildService 组装缓存、网络 Provider 与可选的日志/追踪装饰器。
func buildService(cfg *config.Config, logger *logrus.Logger) (*shortener.Service, telemetry.ShutdownFunc, error) {
	disk, err := cache.NewDiskProvider(cfg.Global.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	var store cache.Provider = disk

	var upstream network.Provider = network.NewProvider(server.NewUpstreamClient(cfg))

	tp, shutdown, err := telemetry.NewTracerProvider(cfg.Global.TracingEnabled, stdErr)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Global.TracingEnabled {
		upstream = network.NewTracingProvider(upstream, tp)
	}
	if cfg.Global.DebugLogs {
		store = cache.NewLoggingProvider(store, logging.WithComponent(logger, "cache"))
		upstream = network.NewLoggingProvider(upstream, logging.WithComponent(logger, "network"))
	}

	svc, err := shortener.NewService(shortener.Options{
		Cache:        store,
		Network:      upstream,
		Endpoint:     cfg.Global.ShortenEndpoint,
		HistoryLimit: cfg.Global.HistoryLimit,
		Concurrency:  cfg.Global.Concurrency,
		Logger:       logger,
	})
	if err != nil {
		_ = shutdown(context.Background())
		return nil, nil, err
	}
	return svc, shutdown, nil
}

func shortenURLs(ctx context.Context, svc *shortener.Service, urls []string) int {
	code := 0
	for _, result := range svc.ShortenAll(ctx, urls) {
		if result.Err != nil {
			notice := shortener.Describe(result.Err)
			fmt.Fprintf(stdErr, "%s\t%s: %s\n", result.URL, notice.Code, notice.Title)
			code = 1
			continue
		}
		fmt.Fprintf(stdOut, "%s\t%s\n", result.Link.Original, result.Link.Shortened)
	}
	return code
}

func printHistory(ctx context.Context, svc *shortener.Service) int {
	links, err := svc.History(ctx)
	if err != nil {
		fmt.Fprintf(stdErr, "读取历史失败: %v\n", err)
		return 1
	}
	if len(links) == 0 {
		fmt.Fprintln(stdOut, "no shortened urls yet")
		return 0
	}
	for _, link := range links {
		fmt.Fprintf(stdOut, "%s\t%s\t%s\n", link.CreatedAt.Local().Format("2006-01-02 15:04"), link.Shortened, link.Original)
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("url-shortener", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		opts       cliOptions
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 URL_SHORTENER_CONFIG 覆盖）")
	fs.BoolVar(&opts.checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&opts.showVersion, "version", false, "显示版本信息")
	fs.BoolVar(&opts.serve, "serve", false, "启动 HTTP 服务")
	fs.BoolVar(&opts.showHistory, "history", false, "打印历史记录")
	fs.BoolVar(&opts.clearHistory, "clear", false, "清空历史记录")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}
	opts.urls = fs.Args()

	if countModes(opts) > 1 {
		return cliOptions{}, errors.New("-serve、-history、-clear 与待缩短的 URL 只能选择其一")
	}

	path := os.Getenv("URL_SHORTENER_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}
	opts.configPath = path

	return opts, nil
}

func countModes(opts cliOptions) int {
	n := 0
	for _, set := range []bool{opts.serve, opts.showHistory, opts.clearHistory, len(opts.urls) > 0} {
		if set {
			n++
		}
	}
	return n
}

func startHTTPServer(ctx context.Context, cfg *config.Config, svc *shortener.Service, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger:  logger,
		Service: svc,
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
