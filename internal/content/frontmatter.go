package content

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// ErrMalformedFrontMatter 表示文档缺少 front matter 或分隔符不完整。
// 缺失 front matter 一律视为失败，不会填充占位元数据。
var ErrMalformedFrontMatter = errors.New("missing or malformed front matter")

// splitFrontMatter 在前两个分隔符处把文本切成三段，返回元数据文本与正文。
func splitFrontMatter(raw string) (string, string, error) {
	if !strings.HasPrefix(raw, frontMatterDelimiter) {
		return "", "", ErrMalformedFrontMatter
	}
	parts := strings.SplitN(raw, frontMatterDelimiter, 3)
	if len(parts) < 3 {
		return "", "", ErrMalformedFrontMatter
	}
	return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), nil
}

// parseMetadata 反序列化 YAML front matter，title 与 date 为必填字段。
func parseMetadata(front string) (Metadata, error) {
	var meta Metadata
	if err := yaml.Unmarshal([]byte(front), &meta); err != nil {
		return Metadata{}, fmt.Errorf("decode front matter: %w", err)
	}
	if strings.TrimSpace(meta.Title) == "" {
		return Metadata{}, errors.New("front matter: title is required")
	}
	if strings.TrimSpace(meta.Date) == "" {
		return Metadata{}, errors.New("front matter: date is required")
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	return meta, nil
}
