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

// GlobalConfig 描述进程级运行参数。
type GlobalConfig struct {
	ListenPort    int    `mapstructure:"ListenPort"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`

	// ContentPath 是文档、GitHub 配置与文件管理共享的根目录。
	ContentPath  string   `mapstructure:"ContentPath"`
	FrontendPath string   `mapstructure:"FrontendPath"`
	Categories   []string `mapstructure:"Categories"`

	DocumentCacheTTL Duration `mapstructure:"DocumentCacheTTL"`
	ProjectCacheTTL  Duration `mapstructure:"ProjectCacheTTL"`
	HighlightCode    bool     `mapstructure:"HighlightCode"`
	MaxUploadSize    int64    `mapstructure:"MaxUploadSize"`

	// AdminJWTSecret 用于校验管理端 Bearer token，签发不在本服务内。
	AdminJWTSecret string `mapstructure:"AdminJWTSecret"`
}

// GitHubConfig 控制远端仓库元数据与 README 的拉取。
type GitHubConfig struct {
	APIBase         string   `mapstructure:"APIBase"`
	RawBase         string   `mapstructure:"RawBase"`
	Branch          string   `mapstructure:"Branch"`
	Token           string   `mapstructure:"Token"`
	UserAgent       string   `mapstructure:"UserAgent"`
	RateLimit       float64  `mapstructure:"RateLimit"`
	UpstreamTimeout Duration `mapstructure:"UpstreamTimeout"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
	GitHub GitHubConfig `mapstructure:"GitHub"`
}

// AuthMode 输出 `token` 或 `anonymous`，供日志字段使用。
func (g GitHubConfig) AuthMode() string {
	if strings.TrimSpace(g.Token) != "" {
		return "token"
	}
	return "anonymous"
}

// AdminEnabled 表示是否配置了管理端校验密钥。
func (g GlobalConfig) AdminEnabled() bool {
	return strings.TrimSpace(g.AdminJWTSecret) != ""
}
