package pathguard

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/any-hub/folio/internal/apperr"
)

func TestValidateCategory(t *testing.T) {
	g := newTestGuard(t)

	testCases := []struct {
		name     string
		category string
		kind     ValidationKind
	}{
		{"empty", "", InvalidCategory},
		{"dot dot", "..", PathTraversal},
		{"nested traversal", "blog/../etc", PathTraversal},
		{"slash", "blog/x", PathTraversal},
		{"backslash", `blog\x`, PathTraversal},
		{"not allowed", "secret", InvalidCategory},
		{"bad chars", "blog!", InvalidCategory},
		{"space", "my blog", InvalidCategory},
		{"too long", strings.Repeat("a", 51), TooLong},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := g.ValidateCategory(tc.category)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError for %q, got %v", tc.category, err)
			}
			if verr.Kind != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, verr.Kind)
			}
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("validation errors should map to apperr validation kind")
			}
		})
	}

	for _, ok := range []string{"project", "blog", "github"} {
		if err := g.ValidateCategory(ok); err != nil {
			t.Fatalf("category %q should be accepted: %v", ok, err)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	bad := []string{
		"",
		"..",
		"../etc/passwd",
		"a/b",
		`a\b`,
		"with\x00nul",
		"line\nbreak",
		"carriage\rreturn",
		".hidden",
		"trailing.",
		"space slug",
		strings.Repeat("s", 101),
	}
	for _, slug := range bad {
		err := ValidateSlug(slug)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Kind != InvalidSlug {
			t.Fatalf("slug %q should fail with InvalidSlug, got %v", slug, err)
		}
	}

	for _, slug := range []string{"hello-world", "post_1", "v1.2-notes", strings.Repeat("s", 100)} {
		if err := ValidateSlug(slug); err != nil {
			t.Fatalf("slug %q should pass: %v", slug, err)
		}
	}
}

func TestContentPathRejectsBeforeTouchingDisk(t *testing.T) {
	// root 不存在：若实现先访问磁盘，下面的校验将无法区分。
	g, err := New(filepath.Join(t.TempDir(), "missing"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := g.ContentPath("../etc", "passwd"); err == nil {
		t.Fatalf("traversal category should be rejected")
	}
	if _, err := g.ContentPath("blog", "../../passwd"); err == nil {
		t.Fatalf("traversal slug should be rejected")
	}

	p, err := g.ContentPath("blog", "hello")
	if err != nil {
		t.Fatalf("valid content path rejected: %v", err)
	}
	if want := filepath.Join(g.Root(), "blog", "hello.md"); p != want {
		t.Fatalf("expected %s, got %s", want, p)
	}
}

func TestResolve(t *testing.T) {
	g := newTestGuard(t)

	p, err := g.Resolve("/notes/today.txt")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want := filepath.Join(g.Root(), "notes", "today.txt"); p != want {
		t.Fatalf("expected %s, got %s", want, p)
	}

	root, err := g.Resolve("")
	if err != nil || root != g.Root() {
		t.Fatalf("empty path should resolve to root, got %s (%v)", root, err)
	}

	for _, bad := range []string{"../etc/passwd", `..\..\windows`, "a/../../b", "nul\x00byte"} {
		_, err := g.Resolve(bad)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Kind != PathTraversal {
			t.Fatalf("path %q should be rejected as traversal, got %v", bad, err)
		}
	}
}

func TestResolveRejectsSymlinkEscape(t *testing.T) {
	g := newTestGuard(t)
	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Symlink(outside, filepath.Join(g.Root(), "escape")); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}

	if _, err := g.Resolve("escape/secret.txt"); err == nil {
		t.Fatalf("existing target behind an escaping symlink must be rejected")
	}
	if _, err := g.Resolve("escape/new-upload.txt"); err == nil {
		t.Fatalf("not-yet-existing target behind an escaping symlink must be rejected")
	}
}

func TestResolveRejectsDanglingSymlinkEscape(t *testing.T) {
	g := newTestGuard(t)
	outside := t.TempDir()
	target := filepath.Join(outside, "pwned.txt")
	relTarget, err := filepath.Rel(g.Root(), target)
	if err != nil {
		t.Fatalf("rel: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(g.Root(), "evil.txt")); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}
	if err := os.Symlink(relTarget, filepath.Join(g.Root(), "evil-rel.txt")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	// 链式悬空链接：hop -> evil.txt -> outside
	if err := os.Symlink("evil.txt", filepath.Join(g.Root(), "hop.txt")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "newdir"), filepath.Join(g.Root(), "dangling-dir")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	for _, rel := range []string{"evil.txt", "evil-rel.txt", "hop.txt", "dangling-dir/file.txt"} {
		_, err := g.Resolve(rel)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Kind != PathTraversal {
			t.Fatalf("dangling symlink %q pointing outside root must be rejected, got %v", rel, err)
		}
	}
}

func TestResolveAllowsDanglingInternalSymlink(t *testing.T) {
	g := newTestGuard(t)
	if err := os.Symlink(filepath.Join(g.Root(), "later.txt"), filepath.Join(g.Root(), "alias.txt")); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}
	if _, err := g.Resolve("alias.txt"); err != nil {
		t.Fatalf("dangling symlink staying inside root should be allowed: %v", err)
	}
}

func TestResolveAllowsInternalSymlink(t *testing.T) {
	g := newTestGuard(t)
	if err := os.MkdirAll(filepath.Join(g.Root(), "real"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(filepath.Join(g.Root(), "real"), filepath.Join(g.Root(), "alias")); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}
	if _, err := g.Resolve("alias"); err != nil {
		t.Fatalf("symlink staying inside root should be allowed: %v", err)
	}
}

func TestRel(t *testing.T) {
	g := newTestGuard(t)
	if got := g.Rel(filepath.Join(g.Root(), "a", "b.txt")); got != "a/b.txt" {
		t.Fatalf("unexpected rel: %s", got)
	}
	if got := g.Rel(g.Root()); got != "" {
		t.Fatalf("root rel should be empty, got %s", got)
	}
}

func newTestGuard(t *testing.T) *Guard {
	t.Helper()
	g, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to create guard: %v", err)
	}
	return g
}
