package pathguard

import (
	"fmt"

	"github.com/any-hub/folio/internal/apperr"
)

// ValidationKind 细分路径校验失败的原因。
type ValidationKind string

const (
	InvalidCategory ValidationKind = "invalid_category"
	InvalidSlug     ValidationKind = "invalid_slug"
	PathTraversal   ValidationKind = "path_traversal"
	TooLong         ValidationKind = "too_long"
)

// ValidationError 描述被拒绝的输入及可读原因。
type ValidationError struct {
	Kind   ValidationKind
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// ErrorKind 使路径校验错误在 apperr 分类中归为 validation。
func (e *ValidationError) ErrorKind() apperr.Kind {
	return apperr.KindValidation
}

func reject(kind ValidationKind, value, reason string) error {
	return &ValidationError{Kind: kind, Value: value, Reason: reason}
}
