package content

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/folio/internal/apperr"
	"github.com/any-hub/folio/internal/cache"
	"github.com/any-hub/folio/internal/logging"
	"github.com/any-hub/folio/internal/pathguard"
)

const cacheName = "documents"

// ItemError 记录列表中被跳过的单个文档及原因。
type ItemError struct {
	Category string
	Slug     string
	Err      error
}

func (e ItemError) Error() string {
	return e.Category + "/" + e.Slug + ": " + e.Err.Error()
}

// ListResult 区分整体成功的文档集合与逐项诊断，单个损坏文档不会让整个列表失败。
type ListResult struct {
	Documents []Document
	Skipped   []ItemError
}

// Service 组合路径校验、渲染与文档缓存，供 HTTP 层调用。
type Service struct {
	guard    *pathguard.Guard
	renderer *Renderer
	cache    cache.Cache[Document]
	log      *logrus.Entry
}

// NewService 构造文档服务；cache 由组合根创建并在所有请求间共享。
func NewService(guard *pathguard.Guard, renderer *Renderer, docs cache.Cache[Document], logger *logrus.Logger) *Service {
	return &Service{
		guard:    guard,
		renderer: renderer,
		cache:    docs,
		log:      logging.Component(logger, "content"),
	}
}

// Document 返回单篇文档：先校验 category/slug，再查缓存，未命中时在锁外渲染并回写。
func (s *Service) Document(ctx context.Context, category, slug string) (Document, error) {
	path, err := s.guard.ContentPath(category, slug)
	if err != nil {
		return Document{}, err
	}

	key := Key(category, slug)
	if doc, ok := s.cache.Get(key); ok {
		s.log.WithFields(logging.CacheFields(cacheName, key, true)).Debug("document_cache_hit")
		return doc, nil
	}

	doc, err := s.renderer.RenderFile(ctx, path, category)
	if err != nil {
		return Document{}, err
	}
	s.cache.Put(key, doc)
	s.log.WithFields(logging.CacheFields(cacheName, key, false)).Debug("document_rendered")
	return doc, nil
}

// List 渲染分类目录下的全部 .md 文档，按日期倒序返回。
// 分类目录不存在时返回空列表；解析失败的文档被记录并跳过。
func (s *Service) List(ctx context.Context, category string) (ListResult, error) {
	dir, err := s.guard.CategoryDir(category)
	if err != nil {
		return ListResult{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ListResult{Documents: []Document{}}, nil
		}
		return ListResult{}, apperr.IO("list documents", dir, err)
	}

	result := ListResult{Documents: make([]Document, 0, len(entries))}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return ListResult{}, err
		}
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != pathguard.DocumentExt {
			continue
		}
		slug := strings.TrimSuffix(name, pathguard.DocumentExt)

		doc, err := s.Document(ctx, category, slug)
		if err != nil {
			item := ItemError{Category: category, Slug: slug, Err: err}
			result.Skipped = append(result.Skipped, item)
			s.log.WithError(err).WithFields(logrus.Fields{
				"action":   "list_documents",
				"category": category,
				"slug":     slug,
				"kind":     apperr.KindOf(err),
			}).Warn("document_skipped")
			continue
		}
		result.Documents = append(result.Documents, doc)
	}

	sortByDateDesc(result.Documents)
	return result, nil
}

// Tags 汇总所有允许分类下文档的标签，去重后升序返回。
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	for _, category := range s.guard.Categories() {
		result, err := s.List(ctx, category)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.log.WithError(err).WithField("category", category).Warn("tags_category_failed")
			continue
		}
		for _, doc := range result.Documents {
			for _, tag := range doc.Metadata.Tags {
				tag = strings.TrimSpace(tag)
				if tag == "" {
					continue
				}
				seen[tag] = struct{}{}
			}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// Refresh 清空文档缓存。
func (s *Service) Refresh() {
	s.cache.Clear()
	s.log.WithField("action", "refresh_documents").Info("document cache cleared")
}

// 日期按字符串字典序比较，相同日期按 slug 升序保证稳定。
func sortByDateDesc(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Metadata.Date != docs[j].Metadata.Date {
			return docs[i].Metadata.Date > docs[j].Metadata.Date
		}
		return docs[i].Slug < docs[j].Slug
	})
}
