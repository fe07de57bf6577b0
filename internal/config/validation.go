package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
		return newFieldError(globalField("LogLevel"), "仅支持 panic/fatal/error/warn/info/debug/trace")
	}
	if g.LogMaxSize < 0 {
		return newFieldError(globalField("LogMaxSize"), "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError(globalField("LogMaxBackups"), "不能为负数")
	}
	if g.StoragePath == "" {
		return newFieldError(globalField("StoragePath"), "不能为空")
	}
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError(globalField("ListenPort"), "必须在 1-65535")
	}
	if g.UpstreamTimeout.DurationValue() <= 0 {
		return newFieldError(globalField("UpstreamTimeout"), "必须大于 0")
	}
	if g.HistoryLimit <= 0 {
		return newFieldError(globalField("HistoryLimit"), "必须大于 0")
	}
	if g.Concurrency <= 0 {
		return newFieldError(globalField("Concurrency"), "必须大于 0")
	}
	if err := validateEndpoint(g.ShortenEndpoint); err != nil {
		return fmt.Errorf("%s: %w", globalField("ShortenEndpoint"), err)
	}

	return nil
}

func validateEndpoint(raw string) error {
	if raw == "" {
		return errors.New("缺少接口地址")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("仅支持 http/https，地址: %s", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("地址缺少 Host: %s", raw)
	}
	return nil
}
