package readme

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// repoKey 在单次 Convert 的 parser.Context 中携带 owner/repo。
var repoKey = parser.NewContextKey()

type repoRef struct {
	owner string
	repo  string
}

// imageTransformer 在解析后的 AST 上改写图片地址。
// 只有真正的 Image 节点会被处理，代码块与行内代码中的 `![..](..)` 保持原样；
// 引用式图片（`![alt][ref]`）在解析阶段已展开，同样会被改写。
type imageTransformer struct {
	resolve func(owner, repo, src string) string
}

func (t *imageTransformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	ref, ok := pc.Get(repoKey).(repoRef)
	if !ok {
		return
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := n.(*ast.Image); ok {
			img.Destination = []byte(t.resolve(ref.owner, ref.repo, string(img.Destination)))
		}
		return ast.WalkContinue, nil
	})
}
