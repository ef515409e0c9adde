// Package apperr 定义跨组件共享的错误分类，调用方通过 Kind 分支而不是解析消息文本。
package apperr

import (
	"errors"
	"fmt"
)

// Kind 是封闭的错误类别集合。
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindParse      Kind = "parse"
	KindIO         Kind = "io"
	KindRemote     Kind = "remote"
	KindUnknown    Kind = "unknown"
)

// Error 携带类别、操作名与相关路径，原始错误通过 Unwrap 保留。
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorKind 让 *Error 满足 Kinded。
func (e *Error) ErrorKind() Kind {
	return e.Kind
}

// Kinded 由能够自报类别的错误实现，例如 pathguard.ValidationError。
type Kinded interface {
	ErrorKind() Kind
}

// New 构造带类别的错误。
func New(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// NotFound 表示解析后的路径或远端资源不存在。
func NotFound(op, path string, err error) error {
	return New(KindNotFound, op, path, err)
}

// Parse 表示 front matter、配置等结构化内容格式错误。
func Parse(op, path string, err error) error {
	return New(KindParse, op, path, err)
}

// IO 表示除不存在之外的文件系统错误。
func IO(op, path string, err error) error {
	return New(KindIO, op, path, err)
}

// Remote 表示远端 API 非 2xx 或传输失败。
func Remote(op, path string, err error) error {
	return New(KindRemote, op, path, err)
}

// Validation 表示调用方输入不安全或语义不合法。
func Validation(op, path string, err error) error {
	return New(KindValidation, op, path, err)
}

// KindOf 沿错误链查找第一个可报告类别的错误，找不到时返回 KindUnknown。
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var kinded Kinded
	if errors.As(err, &kinded) {
		return kinded.ErrorKind()
	}
	return KindUnknown
}

// Is 判断 err 是否属于指定类别。
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
