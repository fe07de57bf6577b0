package server

import (
	"net/http"

	"github.com/url-shortener/url-shortener/internal/config"
	"github.com/url-shortener/url-shortener/internal/network"
)

// NewUpstreamClient 返回访问别名接口使用的 http.Client，超时取自 UpstreamTimeout。
func NewUpstreamClient(cfg *config.Config) *http.Client {
	if cfg == nil {
		return network.NewClient(0)
	}
	return network.NewClient(cfg.Global.UpstreamTimeout.DurationValue())
}
