package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/folio/internal/apperr"
	"github.com/any-hub/folio/internal/logging"
	"github.com/any-hub/folio/internal/pathguard"
)

var (
	ErrDestinationExists = errors.New("destination already exists")
	ErrNoFiles           = errors.New("no files uploaded")
	ErrNotEditable       = errors.New("file type not editable")
	ErrNotDirectory      = errors.New("not a directory")
	ErrNotRegularFile    = errors.New("not a regular file")
	ErrInvalidFilename   = errors.New("invalid filename")
)

// Manager 在内容根目录内执行文件操作。
type Manager struct {
	guard *pathguard.Guard
	log   *logrus.Entry
}

// NewManager 构造文件管理器。
func NewManager(guard *pathguard.Guard, logger *logrus.Logger) *Manager {
	return &Manager{guard: guard, log: logging.Component(logger, "files")}
}

// List 返回目录内容，目录在前，同类按名称升序。
func (m *Manager) List(ctx context.Context, rel string) (Listing, error) {
	dir, err := m.guard.Resolve(rel)
	if err != nil {
		return Listing{}, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return Listing{}, statError("list", dir, err)
	}
	if !info.IsDir() {
		return Listing{}, apperr.Validation("list", rel, ErrNotDirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{}, apperr.IO("list", dir, err)
	}
	items := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return Listing{}, err
		}
		info, err := entry.Info()
		if err != nil {
			// 读取期间被删除的条目直接忽略
			continue
		}
		item := Entry{
			Name:     entry.Name(),
			Path:     m.guard.Rel(filepath.Join(dir, entry.Name())),
			IsDir:    entry.IsDir(),
			Modified: info.ModTime().Format(ModifiedLayout),
		}
		if !entry.IsDir() {
			size := info.Size()
			item.Size = &size
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].IsDir != items[j].IsDir {
			return items[i].IsDir
		}
		return items[i].Name < items[j].Name
	})
	return Listing{Path: m.guard.Rel(dir), Items: items}, nil
}

// CreateFolder 递归创建目录，已存在时视为成功。
func (m *Manager) CreateFolder(rel string) error {
	dir, err := m.guard.Resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.IO("create folder", dir, err)
	}
	m.log.WithFields(logrus.Fields{"action": "create_folder", "path": rel}).Info("folder created")
	return nil
}

// Delete 删除文件或整个目录树。
func (m *Manager) Delete(rel string) error {
	target, err := m.guard.Resolve(rel)
	if err != nil {
		return err
	}
	if target == m.guard.Root() {
		return apperr.Validation("delete", rel, errors.New("refusing to delete the content root"))
	}
	info, err := os.Lstat(target)
	if err != nil {
		return statError("delete", target, err)
	}
	if info.IsDir() {
		err = os.RemoveAll(target)
	} else {
		err = os.Remove(target)
	}
	if err != nil {
		return apperr.IO("delete", target, err)
	}
	m.log.WithFields(logrus.Fields{"action": "delete", "path": rel, "is_dir": info.IsDir()}).Info("path deleted")
	return nil
}

// Rename 在同一根目录内重命名；目标已存在时失败且不修改源。
func (m *Manager) Rename(oldRel, newRel string) error {
	src, dst, err := m.resolvePair("rename", oldRel, newRel)
	if err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return apperr.IO("rename", src, err)
	}
	m.log.WithFields(logrus.Fields{"action": "rename", "from": oldRel, "to": newRel}).Info("path renamed")
	return nil
}

// Move 与 Rename 相同，但会先创建目标父目录。
func (m *Manager) Move(srcRel, dstRel string) error {
	src, dst, err := m.resolvePair("move", srcRel, dstRel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return apperr.IO("move", dst, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return apperr.IO("move", src, err)
	}
	m.log.WithFields(logrus.Fields{"action": "move", "from": srcRel, "to": dstRel}).Info("path moved")
	return nil
}

// Upload 把每个 part 写入 dirRel 目录，文件名只保留最后一段。
func (m *Manager) Upload(ctx context.Context, dirRel string, parts []Part) (UploadResult, error) {
	if len(parts) == 0 {
		return UploadResult{}, apperr.Validation("upload", dirRel, ErrNoFiles)
	}
	dir, err := m.guard.Resolve(dirRel)
	if err != nil {
		return UploadResult{}, err
	}

	// 先校验全部文件名，避免部分写入后才发现非法输入。
	names := make([]string, len(parts))
	for i, part := range parts {
		name, err := sanitizeFilename(part.Filename)
		if err != nil {
			return UploadResult{}, err
		}
		names[i] = name
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return UploadResult{}, apperr.IO("upload", dir, err)
	}

	result := UploadResult{Files: make([]string, 0, len(parts))}
	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		target, err := m.guard.Resolve(joinRel(dirRel, names[i]))
		if err != nil {
			return result, err
		}
		if err := writePart(target, part); err != nil {
			return result, err
		}
		result.Files = append(result.Files, names[i])
	}
	m.log.WithFields(logrus.Fields{"action": "upload", "path": dirRel, "files": result.Files}).Info("files uploaded")
	return result, nil
}

// Download 读取普通文件的完整内容。
func (m *Manager) Download(rel string) (Download, error) {
	target, err := m.guard.Resolve(rel)
	if err != nil {
		return Download{}, err
	}
	info, err := os.Stat(target)
	if err != nil {
		return Download{}, statError("download", target, err)
	}
	if !info.Mode().IsRegular() {
		return Download{}, apperr.Validation("download", rel, ErrNotRegularFile)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return Download{}, apperr.IO("download", target, err)
	}
	return Download{Filename: filepath.Base(target), Data: data}, nil
}

// Read 以文本方式读取可编辑文件。
func (m *Manager) Read(rel string) (FileContent, error) {
	target, err := m.guard.Resolve(rel)
	if err != nil {
		return FileContent{}, err
	}
	info, err := os.Stat(target)
	if err != nil {
		return FileContent{}, statError("read", target, err)
	}
	if !info.Mode().IsRegular() {
		return FileContent{}, apperr.Validation("read", rel, ErrNotRegularFile)
	}
	if !IsEditable(target) {
		return FileContent{}, apperr.Validation("read", rel, ErrNotEditable)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return FileContent{}, apperr.IO("read", target, err)
	}
	return FileContent{
		Path:       m.guard.Rel(target),
		Content:    string(data),
		FileType:   FileType(target),
		IsEditable: true,
		Size:       info.Size(),
	}, nil
}

// Save 覆盖写入可编辑文件，先写临时文件再 rename，读者不会看到半截内容。
func (m *Manager) Save(rel, content string) error {
	target, err := m.guard.Resolve(rel)
	if err != nil {
		return err
	}
	if !IsEditable(target) {
		return apperr.Validation("save", rel, ErrNotEditable)
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return apperr.Validation("save", rel, ErrNotRegularFile)
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.IO("save", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".folio-save-*")
	if err != nil {
		return apperr.IO("save", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.WriteString(tmp, content); err != nil {
		tmp.Close()
		return apperr.IO("save", target, err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.IO("save", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return apperr.IO("save", target, err)
	}
	m.log.WithFields(logrus.Fields{"action": "save", "path": rel, "bytes": len(content)}).Info("file saved")
	return nil
}

func (m *Manager) resolvePair(op, srcRel, dstRel string) (string, string, error) {
	src, err := m.guard.Resolve(srcRel)
	if err != nil {
		return "", "", err
	}
	dst, err := m.guard.Resolve(dstRel)
	if err != nil {
		return "", "", err
	}
	if src == m.guard.Root() || dst == m.guard.Root() {
		return "", "", apperr.Validation(op, srcRel, errors.New("content root cannot be renamed or replaced"))
	}
	if _, err := os.Lstat(src); err != nil {
		return "", "", statError(op, src, err)
	}
	if _, err := os.Lstat(dst); err == nil {
		return "", "", apperr.Validation(op, dstRel, ErrDestinationExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", "", apperr.IO(op, dst, err)
	}
	return src, dst, nil
}

func writePart(target string, part Part) error {
	if part.Open == nil {
		return apperr.Validation("upload", part.Filename, ErrInvalidFilename)
	}
	src, err := part.Open()
	if err != nil {
		return apperr.IO("upload", part.Filename, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return apperr.IO("upload", target, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return apperr.IO("upload", target, err)
	}
	if err := dst.Close(); err != nil {
		return apperr.IO("upload", target, err)
	}
	return nil
}

// sanitizeFilename 去掉客户端提供的目录部分，只保留最后一段文件名。
func sanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	switch {
	case name == "", name == ".":
		return "", apperr.Validation("upload", name, ErrInvalidFilename)
	case strings.Contains(name, ".."), strings.ContainsRune(name, 0):
		return "", apperr.Validation("upload", name, fmt.Errorf("%w: %q", ErrInvalidFilename, name))
	}
	return name, nil
}

func joinRel(dir, name string) string {
	dir = strings.TrimRight(dir, `/\`)
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func statError(op, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return apperr.NotFound(op, path, err)
	}
	return apperr.IO(op, path, err)
}
