package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/folio/internal/logging"
)

// AppOptions 控制 Fiber 应用的行为。
type AppOptions struct {
	Logger *logrus.Logger
	// BodyLimit 限制请求体大小（上传接口受此约束），<= 0 时使用 Fiber 默认值。
	BodyLimit int64
}

const contextKeyRequestID = "_folio_request_id"

// NewApp 构建带 recover、请求 ID、访问日志与统一错误信封的 Fiber 应用，路由由调用方注册。
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}

	cfg := fiber.Config{
		CaseSensitive: true,
		UnescapePath:  true,
		ErrorHandler:  NewErrorHandler(opts.Logger),
	}
	if opts.BodyLimit > 0 {
		cfg.BodyLimit = int(opts.BodyLimit)
	}
	app := fiber.New(cfg)

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts.Logger))
	return app, nil
}

// requestContextMiddleware 生成请求 ID 并在请求结束后输出访问日志。
func requestContextMiddleware(logger *logrus.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		started := time.Now()
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}
		logger.WithFields(logging.RequestFields(reqID, c.Method(), c.Path(), status)).
			WithField("elapsed_ms", time.Since(started).Milliseconds()).
			Info("request_completed")
		return err
	}
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}
