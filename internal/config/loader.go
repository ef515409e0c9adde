package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/any-hub/folio/internal/cache"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(DurationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	applyGitHubDefaults(&cfg.GitHub)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absContent, err := filepath.Abs(cfg.Global.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("无法解析内容目录: %w", err)
	}
	cfg.Global.ContentPath = absContent

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 4000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("ContentPath", "./content")
	v.SetDefault("FrontendPath", "./frontend")
	v.SetDefault("DocumentCacheTTL", cache.DocumentTTL.String())
	v.SetDefault("ProjectCacheTTL", cache.ProjectTTL.String())
	v.SetDefault("MaxUploadSize", 32*1024*1024)
	v.SetDefault("GitHub.APIBase", "https://api.github.com")
	v.SetDefault("GitHub.RawBase", "https://raw.githubusercontent.com")
	v.SetDefault("GitHub.Branch", "main")
	v.SetDefault("GitHub.UserAgent", "portfolio-website")
	v.SetDefault("GitHub.RateLimit", 5)
	v.SetDefault("GitHub.UpstreamTimeout", "10s")
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 4000
	}
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	if g.DocumentCacheTTL.DurationValue() == 0 {
		g.DocumentCacheTTL = Duration(cache.DocumentTTL)
	}
	if g.ProjectCacheTTL.DurationValue() == 0 {
		g.ProjectCacheTTL = Duration(cache.ProjectTTL)
	}
	if g.MaxUploadSize == 0 {
		g.MaxUploadSize = 32 * 1024 * 1024
	}
	for i, c := range g.Categories {
		g.Categories[i] = strings.TrimSpace(c)
	}
}

func applyGitHubDefaults(g *GitHubConfig) {
	g.APIBase = strings.TrimRight(strings.TrimSpace(g.APIBase), "/")
	g.RawBase = strings.TrimRight(strings.TrimSpace(g.RawBase), "/")
	if g.APIBase == "" {
		g.APIBase = "https://api.github.com"
	}
	if g.RawBase == "" {
		g.RawBase = "https://raw.githubusercontent.com"
	}
	if g.Branch == "" {
		g.Branch = "main"
	}
	if g.UserAgent == "" {
		g.UserAgent = "portfolio-website"
	}
	if g.UpstreamTimeout.DurationValue() == 0 {
		g.UpstreamTimeout = Duration(10 * time.Second)
	}
}

// DurationDecodeHook 让 mapstructure 把字符串/数字解析为 Duration，纯数字按秒处理。
func DurationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
