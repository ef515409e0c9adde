// Package files 提供内容根目录下的管理端文件操作，所有入参都是不可信的相对路径，
// 必须先经过 pathguard 解析与包含检查才会触碰磁盘。
package files

import (
	"fmt"
	"io"
)

// ModifiedLayout 是列表中修改时间的展示格式。
const ModifiedLayout = "2006-01-02 15:04:05"

// Entry 是目录列表中的单个条目，Path 为相对内容根目录的斜杠路径。
type Entry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	IsDir    bool   `json:"is_dir"`
	Size     *int64 `json:"size,omitempty"`
	Modified string `json:"modified"`
}

// Listing 是目录列表结果。
type Listing struct {
	Path  string  `json:"path"`
	Items []Entry `json:"items"`
}

// FileContent 是可编辑文本文件的读取结果。
type FileContent struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	FileType   string `json:"file_type"`
	IsEditable bool   `json:"is_editable"`
	Size       int64  `json:"size"`
}

// Part 是一个待上传的文件，Open 延迟到写盘时才打开数据源。
type Part struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// UploadResult 记录成功写入的文件名。
type UploadResult struct {
	Files []string `json:"files"`
}

// Message 单文件时返回文件名，多文件时返回数量。
func (r UploadResult) Message() string {
	if len(r.Files) == 1 {
		return fmt.Sprintf("File '%s' uploaded successfully", r.Files[0])
	}
	return fmt.Sprintf("%d files uploaded successfully", len(r.Files))
}

// Download 是下载接口返回的文件内容。
type Download struct {
	Filename string
	Data     []byte
}
