package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/any-hub/folio/internal/config"
)

// captureCLIOutput 在测试期间把 stdOut/stdErr 替换为内存缓冲区。
func captureCLIOutput(t *testing.T) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr := stdOut, stdErr
	stdOut, stdErr = stdout, stderr
	t.Cleanup(func() {
		stdOut, stdErr = prevOut, prevErr
	})
	return stdout, stderr
}

// configFixture 返回 internal/config/testdata 下的配置样例；go test 以包目录为工作目录。
func configFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("internal", "config", "testdata", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("配置样例不存在: %v", err)
	}
	return path
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "folio.toml")
	if err := os.WriteFile(file, []byte(strings.TrimSpace(content)), 0o600); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	return file
}

// seedContentRoot 创建内容根目录并写入 rel -> body 形式的文件。
func seedContentRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("创建目录失败: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("写入内容失败: %v", err)
		}
	}
	return root
}

// testAppConfig 返回指向 contentDir、未启用管理端的最小配置。
func testAppConfig(contentDir string) *config.Config {
	return &config.Config{
		Global: config.GlobalConfig{
			ListenPort:       4000,
			LogLevel:         "info",
			ContentPath:      contentDir,
			DocumentCacheTTL: config.Duration(time.Hour),
			ProjectCacheTTL:  config.Duration(24 * time.Hour),
		},
	}
}
