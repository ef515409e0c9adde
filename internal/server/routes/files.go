package routes

import (
	"io"
	"mime/multipart"
	"sort"

	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/folio/internal/apperr"
	"github.com/any-hub/folio/internal/files"
	"github.com/any-hub/folio/internal/server"
)

type pathRequest struct {
	Path string `json:"path"`
}

type renameRequest struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

type moveRequest struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
}

type saveRequest struct {
	Content string `json:"content"`
}

func registerFileRoutes(group fiber.Router, mgr *files.Manager) {
	group.Get("/list/*", func(c fiber.Ctx) error {
		listing, err := mgr.List(c.Context(), c.Params("*"))
		if err != nil {
			return err
		}
		return server.OK(c, listing)
	})

	group.Get("/read/*", func(c fiber.Ctx) error {
		content, err := mgr.Read(c.Params("*"))
		if err != nil {
			return err
		}
		return server.OK(c, content)
	})

	group.Post("/save/*", func(c fiber.Ctx) error {
		var req saveRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		if err := mgr.Save(c.Params("*"), req.Content); err != nil {
			return err
		}
		return server.OK(c, "File saved successfully")
	})

	group.Post("/upload/*", func(c fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return apperr.Validation("upload", c.Params("*"), err)
		}
		result, err := mgr.Upload(c.Context(), c.Params("*"), multipartParts(form))
		if err != nil {
			return err
		}
		return server.OK(c, result.Message())
	})

	group.Post("/delete", func(c fiber.Ctx) error {
		var req pathRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		if err := mgr.Delete(req.Path); err != nil {
			return err
		}
		return server.OK(c, "File/folder deleted successfully")
	})

	group.Post("/rename", func(c fiber.Ctx) error {
		var req renameRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		if err := mgr.Rename(req.OldPath, req.NewPath); err != nil {
			return err
		}
		return server.OK(c, "File/folder renamed successfully")
	})

	group.Post("/move", func(c fiber.Ctx) error {
		var req moveRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		if err := mgr.Move(req.SourcePath, req.DestinationPath); err != nil {
			return err
		}
		return server.OK(c, "File/folder moved successfully")
	})

	group.Post("/create-folder", func(c fiber.Ctx) error {
		var req pathRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		if err := mgr.CreateFolder(req.Path); err != nil {
			return err
		}
		return server.OK(c, "Folder created successfully")
	})

	group.Get("/download/*", func(c fiber.Ctx) error {
		dl, err := mgr.Download(c.Params("*"))
		if err != nil {
			return err
		}
		c.Attachment(dl.Filename)
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
		return c.Send(dl.Data)
	})
}

func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return apperr.Validation("decode request", c.Path(), err)
	}
	return nil
}

// multipartParts 按字段名排序后展开所有文件，保证写入顺序稳定。
func multipartParts(form *multipart.Form) []files.Part {
	if form == nil {
		return nil
	}
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []files.Part
	for _, field := range fields {
		for _, header := range form.File[field] {
			fh := header
			parts = append(parts, files.Part{
				Filename: fh.Filename,
				Open: func() (io.ReadCloser, error) {
					f, err := fh.Open()
					if err != nil {
						return nil, err
					}
					return f, nil
				},
			})
		}
	}
	return parts
}
