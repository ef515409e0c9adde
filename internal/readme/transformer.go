// Package readme 把远端仓库的 README markdown 转换为可直接嵌入的 HTML：
// 相对图片地址改写为 raw 内容地址，fenced code 块带上 language-* class 供前端高亮。
package readme

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	DefaultRawBase = "https://raw.githubusercontent.com"
	DefaultBranch  = "main"

	// Unavailable 是 README 拉取失败或为空时的占位文本。
	Unavailable = "README not available"
)

// Transformer 持有 raw 内容地址前缀与默认分支，可被多个请求并发使用。
type Transformer struct {
	rawBase string
	branch  string
	md      goldmark.Markdown
}

// New 构造 Transformer；空参数回退到 raw.githubusercontent.com 与 main。
func New(rawBase, branch string) *Transformer {
	rawBase = strings.TrimRight(strings.TrimSpace(rawBase), "/")
	if rawBase == "" {
		rawBase = DefaultRawBase
	}
	branch = strings.Trim(strings.TrimSpace(branch), "/")
	if branch == "" {
		branch = DefaultBranch
	}
	t := &Transformer{rawBase: rawBase, branch: branch}
	t.md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(&imageTransformer{resolve: t.ResolveImageURL}, 110)),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&codeBlockRenderer{}, 100)),
		),
	)
	return t
}

// ResolveImageURL 把 README 中的图片地址改写为绝对地址。
// 只剥离一层 `./` 与一层 `../`，更深的相对路径不做完整解析。
func (t *Transformer) ResolveImageURL(owner, repo, src string) string {
	if src == "" || isAbsolute(src) {
		return src
	}
	prefix := fmt.Sprintf("%s/%s/%s/%s", t.rawBase, owner, repo, t.branch)
	if strings.HasPrefix(src, "/") {
		return prefix + src
	}
	path := strings.TrimPrefix(src, "./")
	path = strings.TrimPrefix(path, "../")
	return prefix + "/" + path
}

// RewriteHTMLImages 改写 HTML 中 img 标签的 src 属性。
// 属性名大小写、引号风格（含无引号）均由 tokenizer 处理；其余标记原样输出。
func (t *Transformer) RewriteHTMLImages(body, owner, repo string) (string, error) {
	var buf strings.Builder
	buf.Grow(len(body))

	z := xhtml.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				return buf.String(), nil
			}
			return "", fmt.Errorf("tokenize html: %w", z.Err())
		}
		// TagName/Token 会原地小写化缓冲区，先复制原始文本
		raw := bytes.Clone(z.Raw())
		if tt != xhtml.StartTagToken && tt != xhtml.SelfClosingTagToken {
			buf.Write(raw)
			continue
		}
		token := z.Token()
		if token.DataAtom != atom.Img || !t.rewriteHTMLAttributes(&token, owner, repo) {
			buf.Write(raw)
			continue
		}
		buf.WriteString(token.String())
	}
}

func (t *Transformer) rewriteHTMLAttributes(token *xhtml.Token, owner, repo string) bool {
	changed := false
	for i, attr := range token.Attr {
		if attr.Namespace != "" || attr.Key != "src" {
			continue
		}
		resolved := t.ResolveImageURL(owner, repo, strings.TrimSpace(attr.Val))
		if resolved != attr.Val {
			token.Attr[i].Val = resolved
			changed = true
		}
	}
	return changed
}

// ToHTML 渲染 README：markdown 图片在 AST 上改写（代码块与行内代码不受影响），
// 渲染结果中的原始 <img> 再经 RewriteHTMLImages 改写。
func (t *Transformer) ToHTML(markdown, owner, repo string) (string, error) {
	pc := parser.NewContext()
	pc.Set(repoKey, repoRef{owner: owner, repo: repo})

	var buf bytes.Buffer
	if err := t.md.Convert([]byte(markdown), &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("render readme %s/%s: %w", owner, repo, err)
	}
	out, err := t.RewriteHTMLImages(buf.String(), owner, repo)
	if err != nil {
		return "", fmt.Errorf("rewrite readme images %s/%s: %w", owner, repo, err)
	}
	return out, nil
}

func isAbsolute(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(lower, "//")
}
