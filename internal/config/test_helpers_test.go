package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fixturePath 返回 testdata 下的配置样例，样例缺失时直接失败而不是让 Load 报不相关的错误。
func fixturePath(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("配置样例 %s 不存在: %v", name, err)
	}
	return path
}

// writeFolioConfig 把 TOML 片段写入临时目录中的 folio.toml。
func writeFolioConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "folio.toml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}
	return path
}

// loadFolioConfig 写入并加载配置，加载失败即终止测试。
func loadFolioConfig(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := Load(writeFolioConfig(t, content))
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	return cfg
}

func assertDuration(t *testing.T, field string, got Duration, want time.Duration) {
	t.Helper()
	if got.DurationValue() != want {
		t.Fatalf("%s = %s, want %s", field, got.DurationValue(), want)
	}
}
