package files

import (
	"path/filepath"
	"strings"
)

var editableExtensions = map[string]struct{}{
	"txt": {}, "md": {}, "markdown": {}, "yaml": {}, "yml": {}, "json": {}, "toml": {},
	"html": {}, "css": {}, "js": {}, "ts": {}, "csv": {}, "xml": {}, "log": {},
}

// FileType 返回小写扩展名（不含点），无扩展名时为空串。
func FileType(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// IsEditable 判断文件是否允许通过管理端以文本方式读写。
func IsEditable(name string) bool {
	_, ok := editableExtensions[FileType(name)]
	return ok
}
