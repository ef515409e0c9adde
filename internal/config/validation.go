package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/sirupsen/logrus"
)

var categoryPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
		return newFieldError("Global.LogLevel", fmt.Sprintf("无法识别的级别 %q", g.LogLevel))
	}
	if g.ContentPath == "" {
		return newFieldError("Global.ContentPath", "不能为空")
	}
	if g.DocumentCacheTTL.DurationValue() <= 0 {
		return newFieldError("Global.DocumentCacheTTL", "必须大于 0")
	}
	if g.ProjectCacheTTL.DurationValue() <= 0 {
		return newFieldError("Global.ProjectCacheTTL", "必须大于 0")
	}
	if g.MaxUploadSize < 0 {
		return newFieldError("Global.MaxUploadSize", "不能为负数")
	}

	seen := map[string]struct{}{}
	for _, category := range g.Categories {
		if !categoryPattern.MatchString(category) {
			return newFieldError("Global.Categories", fmt.Sprintf("非法分类 %q", category))
		}
		if _, dup := seen[category]; dup {
			return newFieldError("Global.Categories", fmt.Sprintf("分类 %q 重复", category))
		}
		seen[category] = struct{}{}
	}

	gh := c.GitHub
	if err := validateBaseURL(gh.APIBase); err != nil {
		return fmt.Errorf("%s: %w", githubField("APIBase"), err)
	}
	if err := validateBaseURL(gh.RawBase); err != nil {
		return fmt.Errorf("%s: %w", githubField("RawBase"), err)
	}
	if gh.RateLimit < 0 {
		return newFieldError(githubField("RateLimit"), "不能为负数")
	}
	if gh.UpstreamTimeout.DurationValue() <= 0 {
		return newFieldError(githubField("UpstreamTimeout"), "必须大于 0")
	}

	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("缺少地址")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("仅支持 http/https: %s", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("缺少 Host: %s", raw)
	}
	return nil
}
