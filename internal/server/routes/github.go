package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/folio/internal/github"
	"github.com/any-hub/folio/internal/server"
)

// RegisterGitHubRoutes 暴露 /github/projects；仓库声明每次请求重新读取，
// 配置中 feature/image 的修改无需刷新缓存即可生效。
func RegisterGitHubRoutes(router fiber.Router, fetcher *github.Fetcher, contentRoot string) {
	if router == nil || fetcher == nil {
		return
	}

	router.Get("/github/projects", func(c fiber.Ctx) error {
		specs, err := github.LoadRepositories(contentRoot)
		if err != nil {
			return err
		}
		projects, err := fetcher.Projects(c.Context(), specs)
		if err != nil {
			return err
		}
		return server.OK(c, projects)
	})
}
