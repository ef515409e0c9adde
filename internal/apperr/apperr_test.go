package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestKindOfFollowsWrapChain(t *testing.T) {
	base := NotFound("read document", "/tmp/a.md", fs.ErrNotExist)
	wrapped := fmt.Errorf("render: %w", base)

	if got := KindOf(wrapped); got != KindNotFound {
		t.Fatalf("expected %s, got %s", KindNotFound, got)
	}
	if !errors.Is(wrapped, fs.ErrNotExist) {
		t.Fatalf("原始错误应可通过 errors.Is 识别")
	}
}

func TestKindOfUnknownAndNil(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Fatalf("expected unknown, got %s", got)
	}
	if got := KindOf(nil); got != "" {
		t.Fatalf("nil error should have empty kind, got %s", got)
	}
}

func TestErrorMessage(t *testing.T) {
	err := IO("delete", "notes/a.txt", errors.New("permission denied"))
	if got := err.Error(); got != "delete notes/a.txt: permission denied" {
		t.Fatalf("unexpected message: %s", got)
	}
	if !Is(err, KindIO) {
		t.Fatalf("expected io kind")
	}
}
