package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/any-hub/folio/internal/apperr"
)

// RendererOptions 控制 markdown 渲染的可选特性。
type RendererOptions struct {
	// HighlightCode 启用服务端代码高亮（输出 chroma CSS class）。
	HighlightCode bool
}

// Renderer 把文档正文转换为 HTML。输出不做额外清洗，内容源本身是受信的。
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer 构造启用 table/strikethrough/footnote/tasklist 的渲染器。
func NewRenderer(opts RendererOptions) *Renderer {
	extensions := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.Footnote,
		extension.TaskList,
	}
	if opts.HighlightCode {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		))
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extensions...),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// RenderMarkdown 渲染一段 markdown 正文。
func (r *Renderer) RenderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Parse 解析完整文档文本；slug 取自 path 的文件名（去扩展名），而不是调用方输入。
func (r *Renderer) Parse(raw, path, category string) (Document, error) {
	front, body, err := splitFrontMatter(raw)
	if err != nil {
		return Document{}, apperr.Parse("parse document", path, err)
	}
	meta, err := parseMetadata(front)
	if err != nil {
		return Document{}, apperr.Parse("parse document", path, err)
	}
	htmlBody, err := r.RenderMarkdown(body)
	if err != nil {
		return Document{}, apperr.Parse("render document", path, err)
	}
	return Document{
		Slug:     SlugFromPath(path),
		Category: category,
		Metadata: meta,
		HTML:     htmlBody,
	}, nil
}

// RenderFile 读取并渲染 path 指向的文档。
func (r *Renderer) RenderFile(ctx context.Context, path, category string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, apperr.NotFound("read document", path, err)
		}
		return Document{}, apperr.IO("read document", path, fmt.Errorf("read: %w", err))
	}
	return r.Parse(string(raw), path, category)
}

// SlugFromPath 返回去掉扩展名的文件名。
func SlugFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
