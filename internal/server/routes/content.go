package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/folio/internal/content"
	"github.com/any-hub/folio/internal/server"
)

// RegisterContentRoutes 暴露文档列表、单篇文档与标签聚合接口。
// /tags 必须先于 /:category 注册，否则会被当作分类名匹配。
func RegisterContentRoutes(router fiber.Router, svc *content.Service) {
	if router == nil || svc == nil {
		return
	}

	group := router.Group("/content")
	group.Get("/tags", func(c fiber.Ctx) error {
		tags, err := svc.Tags(c.Context())
		if err != nil {
			return err
		}
		return server.OK(c, tags)
	})

	group.Get("/:category", func(c fiber.Ctx) error {
		result, err := svc.List(c.Context(), c.Params("category"))
		if err != nil {
			return err
		}
		if len(result.Skipped) > 0 {
			c.Set("X-Skipped-Documents", strconv.Itoa(len(result.Skipped)))
		}
		return server.OK(c, result.Documents)
	})

	group.Get("/:category/:slug", func(c fiber.Ctx) error {
		doc, err := svc.Document(c.Context(), c.Params("category"), c.Params("slug"))
		if err != nil {
			return err
		}
		return server.OK(c, doc)
	})
}
