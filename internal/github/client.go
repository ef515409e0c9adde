package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/any-hub/folio/internal/apperr"
)

const (
	DefaultAPIBase   = "https://api.github.com"
	DefaultUserAgent = "portfolio-website"

	maxResponseBytes = 4 << 20
)

// ClientOptions 描述 GitHub API 访问参数。
type ClientOptions struct {
	APIBase   string
	Token     string
	UserAgent string
	// RateLimit 为每秒请求数，<= 0 表示不限速。
	RateLimit float64
}

// RepoInfo 是仓库元数据中用到的字段。
type RepoInfo struct {
	Stars       int     `json:"stargazers_count"`
	Forks       int     `json:"forks_count"`
	Description *string `json:"description"`
}

type readmePayload struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Client 封装共享 http.Client、限速器与认证头。
type Client struct {
	http      *http.Client
	apiBase   string
	token     string
	userAgent string
	limiter   *rate.Limiter
}

// NewClient 使用组合根提供的 http.Client 构造 GitHub 客户端。
func NewClient(httpClient *http.Client, opts ClientOptions) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	apiBase := strings.TrimRight(strings.TrimSpace(opts.APIBase), "/")
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return &Client{
		http:      httpClient,
		apiBase:   apiBase,
		token:     strings.TrimSpace(opts.Token),
		userAgent: userAgent,
		limiter:   limiter,
	}
}

// RepoInfo 请求 GET /repos/{owner}/{repo}。
func (c *Client) RepoInfo(ctx context.Context, owner, repo string) (RepoInfo, error) {
	var info RepoInfo
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &info); err != nil {
		return RepoInfo{}, err
	}
	return info, nil
}

// Readme 请求 GET /repos/{owner}/{repo}/readme 并解码 base64 内容。
func (c *Client) Readme(ctx context.Context, owner, repo string) (string, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/readme", owner, repo)
	var payload readmePayload
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return "", err
	}
	if payload.Encoding != "" && payload.Encoding != "base64" {
		return "", apperr.Remote("fetch readme", endpoint, fmt.Errorf("unsupported encoding %q", payload.Encoding))
	}
	// GitHub 返回的 base64 每 60 列换行。
	cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(payload.Content)
	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", apperr.Remote("fetch readme", endpoint, fmt.Errorf("decode content: %w", err))
	}
	return string(decoded), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.Remote("github request", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+endpoint, nil)
	if err != nil {
		return apperr.Remote("github request", endpoint, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Remote("github request", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return apperr.NotFound("github request", endpoint, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return apperr.Remote("github request", endpoint, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return apperr.Remote("github request", endpoint, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
