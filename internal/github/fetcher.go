package github

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/any-hub/folio/internal/apperr"
	"github.com/any-hub/folio/internal/cache"
	"github.com/any-hub/folio/internal/logging"
	"github.com/any-hub/folio/internal/readme"
)

const (
	cacheName      = "projects"
	maxConcurrency = 4
)

// Source 是 Fetcher 依赖的远端接口，测试中可替换。
type Source interface {
	RepoInfo(ctx context.Context, owner, repo string) (RepoInfo, error)
	Readme(ctx context.Context, owner, repo string) (string, error)
}

// Fetcher 负责 “查缓存 → 拉取元数据与 README → 转换 → 写缓存” 的流程。
type Fetcher struct {
	source      Source
	transformer *readme.Transformer
	cache       cache.Cache[Project]
	log         *logrus.Entry
}

// NewFetcher 构造项目抓取器，projects 缓存由组合根创建。
func NewFetcher(source Source, transformer *readme.Transformer, projects cache.Cache[Project], logger *logrus.Logger) *Fetcher {
	if transformer == nil {
		transformer = readme.New("", "")
	}
	return &Fetcher{
		source:      source,
		transformer: transformer,
		cache:       projects,
		log:         logging.Component(logger, "github"),
	}
}

// Projects 并发获取每个仓库，输出顺序与 specs 一致。
// 单个仓库失败只会降级该条记录，不会让整个列表失败。
func (f *Fetcher) Projects(ctx context.Context, specs []RepositorySpec) ([]Project, error) {
	projects := make([]Project, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)
	for i, spec := range specs {
		g.Go(func() error {
			projects[i] = f.project(gctx, spec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// Refresh 清空项目缓存，下次请求重新拉取。
func (f *Fetcher) Refresh() {
	f.cache.Clear()
	f.log.WithField("action", "refresh_projects").Info("project cache cleared")
}

func (f *Fetcher) project(ctx context.Context, spec RepositorySpec) Project {
	key := spec.Key()
	if cached, ok := f.cache.Get(key); ok {
		f.log.WithFields(logging.CacheFields(cacheName, key, true)).Debug("project_cache_hit")
		return cached.withSpec(spec)
	}

	fields := logrus.Fields{"owner": spec.Owner, "repo": spec.Repo}
	info, err := f.source.RepoInfo(ctx, spec.Owner, spec.Repo)
	if err != nil {
		f.log.WithError(err).WithFields(fields).WithField("kind", apperr.KindOf(err)).Warn("repo_info_failed")
		return degradedProject(spec)
	}

	readmeHTML, cacheable := f.readmeHTML(ctx, spec, fields)
	project := Project{
		Owner:       spec.Owner,
		Repo:        spec.Repo,
		DisplayName: spec.DisplayName,
		ReadmeHTML:  readmeHTML,
		URL:         repositoryURL(spec),
		Stars:       info.Stars,
		Forks:       info.Forks,
		Description: cloneString(info.Description),
	}
	if cacheable {
		f.cache.Put(key, project)
	}
	f.log.WithFields(logging.CacheFields(cacheName, key, false)).WithField("cached", cacheable).Debug("project_fetched")
	return project.withSpec(spec)
}

// readmeHTML 返回 README 的 HTML 以及结果是否可以写入缓存。
// 仓库没有 README（404）、内容为空或渲染失败都是稳定结果；
// 其余拉取失败（限流、网络、5xx）视为暂时性的，不缓存以便下次重试。
func (f *Fetcher) readmeHTML(ctx context.Context, spec RepositorySpec, fields logrus.Fields) (string, bool) {
	raw, err := f.source.Readme(ctx, spec.Owner, spec.Repo)
	if err != nil {
		kind := apperr.KindOf(err)
		f.log.WithError(err).WithFields(fields).WithField("kind", kind).Warn("readme_fetch_failed")
		return readme.Unavailable, kind == apperr.KindNotFound
	}
	if strings.TrimSpace(raw) == "" {
		return readme.Unavailable, true
	}
	html, err := f.transformer.ToHTML(raw, spec.Owner, spec.Repo)
	if err != nil {
		f.log.WithError(err).WithFields(fields).Warn("readme_render_failed")
		return readme.Unavailable, true
	}
	return html, true
}
