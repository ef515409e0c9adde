// Package pathguard validates untrusted path fragments (categories, slugs and
// arbitrary relative paths) and resolves them to filesystem locations that are
// guaranteed to stay under a configured root. Validation is two-layered: a
// syntactic pass that never touches the disk, followed by canonical containment
// (symlinks resolved) whenever the target or one of its ancestors exists.
package pathguard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	maxCategoryLength = 50
	maxSlugLength     = 100
	maxSymlinkHops    = 40

	// DocumentExt 是内容文档的扩展名。
	DocumentExt = ".md"
)

// DefaultCategories 是前端识别的内容分类。
var DefaultCategories = []string{"project", "blog", "github"}

var (
	categoryPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	slugPattern     = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// Guard 以 root 为边界解析路径，整站复用一份实例。
type Guard struct {
	root       string
	categories []string
	allowed    map[string]struct{}
}

// New 构建 Guard，root 会被转换为绝对路径；categories 为空时使用 DefaultCategories。
func New(root string, categories []string) (*Guard, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("content root required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve content root: %w", err)
	}
	if len(categories) == 0 {
		categories = DefaultCategories
	}

	g := &Guard{
		root:    abs,
		allowed: make(map[string]struct{}, len(categories)),
	}
	for _, c := range categories {
		if !categoryPattern.MatchString(c) || len(c) > maxCategoryLength {
			return nil, fmt.Errorf("invalid category in allow-list: %q", c)
		}
		if _, dup := g.allowed[c]; dup {
			continue
		}
		g.allowed[c] = struct{}{}
		g.categories = append(g.categories, c)
	}
	return g, nil
}

// Root 返回绝对根目录。
func (g *Guard) Root() string {
	return g.root
}

// Categories 返回允许的分类（配置顺序）。
func (g *Guard) Categories() []string {
	return append([]string(nil), g.categories...)
}

// ValidateCategory 只做语法与白名单校验，不访问文件系统。
func (g *Guard) ValidateCategory(category string) error {
	switch {
	case category == "":
		return reject(InvalidCategory, category, "category must not be empty")
	case len(category) > maxCategoryLength:
		return reject(TooLong, category, fmt.Sprintf("category exceeds %d characters", maxCategoryLength))
	case hasTraversal(category) || strings.ContainsAny(category, `/\`):
		return reject(PathTraversal, category, "category must not contain path separators or traversal sequences")
	case !categoryPattern.MatchString(category):
		return reject(InvalidCategory, category, "category may only contain letters, digits, '-' and '_'")
	}
	if _, ok := g.allowed[category]; !ok {
		return reject(InvalidCategory, category, fmt.Sprintf("unknown category %q", category))
	}
	return nil
}

// ValidateSlug 校验文档 slug；所有失败均归类为 InvalidSlug。
func ValidateSlug(slug string) error {
	switch {
	case slug == "":
		return reject(InvalidSlug, slug, "slug must not be empty")
	case len(slug) > maxSlugLength:
		return reject(InvalidSlug, slug, fmt.Sprintf("slug exceeds %d characters", maxSlugLength))
	case strings.ContainsAny(slug, "\x00\r\n"):
		return reject(InvalidSlug, slug, "slug must not contain control characters")
	case hasTraversal(slug) || strings.ContainsAny(slug, `/\`):
		return reject(InvalidSlug, slug, "slug must not contain traversal sequences")
	case strings.HasPrefix(slug, ".") || strings.HasSuffix(slug, "."):
		return reject(InvalidSlug, slug, "slug must not start or end with '.'")
	case !slugPattern.MatchString(slug):
		return reject(InvalidSlug, slug, "slug may only contain letters, digits, '.', '-' and '_'")
	}
	return nil
}

// CategoryDir 返回分类目录的安全路径。
func (g *Guard) CategoryDir(category string) (string, error) {
	if err := g.ValidateCategory(category); err != nil {
		return "", err
	}
	return g.contain(filepath.Join(g.root, category))
}

// ContentPath 返回 <root>/<category>/<slug>.md 的安全路径。
func (g *Guard) ContentPath(category, slug string) (string, error) {
	if err := g.ValidateCategory(category); err != nil {
		return "", err
	}
	if err := ValidateSlug(slug); err != nil {
		return "", err
	}
	return g.contain(filepath.Join(g.root, category, slug+DocumentExt))
}

// Resolve 用于文件管理等无白名单的场景：拒绝 traversal 与 NUL，去掉一个前导分隔符后拼接到 root。
func (g *Guard) Resolve(rel string) (string, error) {
	if hasTraversal(rel) {
		return "", reject(PathTraversal, rel, "path must not contain '..'")
	}
	if strings.ContainsRune(rel, 0) {
		return "", reject(PathTraversal, rel, "path must not contain NUL bytes")
	}
	if strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, `\`) {
		rel = rel[1:]
	}
	return g.contain(filepath.Join(g.root, filepath.FromSlash(rel)))
}

// Rel 把 root 下的绝对路径转换为斜杠分隔的相对路径。
func (g *Guard) Rel(abs string) string {
	rel, err := filepath.Rel(g.root, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// contain 对候选路径做规范化包含检查。目标不存在时沿最近的已存在祖先检查；
// 悬空的符号链接按其指向继续解析，避免写入时被跟随到 root 之外。
// 连 root 都无法规范化时语法检查即为最终结论。
func (g *Guard) contain(candidate string) (string, error) {
	rootReal, err := filepath.EvalSymlinks(g.root)
	if err != nil {
		return candidate, nil
	}
	if err := checkContained(rootReal, candidate, candidate, 0); err != nil {
		return "", err
	}
	return candidate, nil
}

func checkContained(rootReal, path, candidate string, hops int) error {
	if hops > maxSymlinkHops {
		return reject(PathTraversal, candidate, "too many levels of symbolic links")
	}

	real, err := filepath.EvalSymlinks(path)
	if err == nil {
		if !within(rootReal, real) {
			return reject(PathTraversal, candidate, "path resolves outside the content root")
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil
	}

	// 找到 Lstat 可见的最近祖先（悬空链接本身也算存在）
	existing := path
	var info os.FileInfo
	for {
		info, err = os.Lstat(existing)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return nil
		}
		existing = parent
	}

	if info.Mode()&os.ModeSymlink == 0 {
		real, err := filepath.EvalSymlinks(existing)
		if err != nil {
			return reject(PathTraversal, candidate, "path cannot be resolved")
		}
		if !within(rootReal, real) {
			return reject(PathTraversal, candidate, "path resolves outside the content root")
		}
		return nil
	}

	target, err := os.Readlink(existing)
	if err != nil {
		return reject(PathTraversal, candidate, "symbolic link cannot be read")
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(existing), target)
	}
	rest, err := filepath.Rel(existing, path)
	if err != nil {
		return reject(PathTraversal, candidate, "path cannot be resolved")
	}
	return checkContained(rootReal, filepath.Join(target, rest), candidate, hops+1)
}

func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}

func hasTraversal(s string) bool {
	return strings.Contains(s, "..")
}
