package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/folio/internal/content"
	"github.com/any-hub/folio/internal/files"
	"github.com/any-hub/folio/internal/github"
	"github.com/any-hub/folio/internal/server"
)

// AdminDeps 汇总管理端路由依赖的服务。
type AdminDeps struct {
	Gate    server.AdminGate
	Content *content.Service
	Fetcher *github.Fetcher
	Files   *files.Manager
}

// RegisterAdminRoutes 在 /admin 下注册缓存刷新与文件管理接口，全部经过 admin gate。
func RegisterAdminRoutes(router fiber.Router, deps AdminDeps) {
	if router == nil {
		return
	}

	admin := router.Group("/admin", server.RequireAdmin(deps.Gate))

	if deps.Fetcher != nil {
		admin.Post("/refresh-github", func(c fiber.Ctx) error {
			deps.Fetcher.Refresh()
			return server.OK(c, "GitHub cache refreshed")
		})
	}
	if deps.Content != nil {
		admin.Post("/refresh-content", func(c fiber.Ctx) error {
			deps.Content.Refresh()
			return server.OK(c, "Content cache refreshed")
		})
	}
	if deps.Files != nil {
		registerFileRoutes(admin.Group("/files"), deps.Files)
	}
}
