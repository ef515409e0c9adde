package server

import (
	"net"
	"net/http"
	"time"

	"github.com/any-hub/folio/internal/config"
)

const defaultUpstreamTimeout = 10 * time.Second

// 共享 transport，复用到 GitHub API 与 raw 内容域名的长连接。
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          32,
	MaxIdleConnsPerHost:   8,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// NewUpstreamClient 返回所有出站请求共用的 http.Client，超时取自 [GitHub].UpstreamTimeout。
func NewUpstreamClient(cfg *config.Config) *http.Client {
	timeout := defaultUpstreamTimeout
	if cfg != nil && cfg.GitHub.UpstreamTimeout.DurationValue() > 0 {
		timeout = cfg.GitHub.UpstreamTimeout.DurationValue()
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: defaultTransport.Clone(),
	}
}
