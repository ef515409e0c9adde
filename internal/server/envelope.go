package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/folio/internal/apperr"
)

// SuccessMessage 是成功响应的固定 message。
const SuccessMessage = "Success"

// Envelope 是所有 JSON 响应的统一外层结构。
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

// OK 输出 200 + 成功信封。
func OK(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Data: data, Message: SuccessMessage})
}

// Fail 输出指定状态码的失败信封。
func Fail(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message})
}

// StatusFor 把错误类别映射为 HTTP 状态码。
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	if errors.Is(err, ErrUnauthorized) {
		return fiber.StatusUnauthorized
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindRemote:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// messageFor 只对调用方可修正的错误回显细节，服务端错误不暴露内部路径。
func messageFor(err error, status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnauthorized:
		return err.Error()
	case fiber.StatusNotFound:
		return "Not found"
	case fiber.StatusBadGateway:
		return "Upstream unavailable"
	case fiber.StatusInternalServerError:
		return "Internal server error"
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}

// NewErrorHandler 作为 Fiber ErrorHandler，把 handler 返回的错误统一渲染为信封。
func NewErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		status := StatusFor(err)
		entry := logger.WithError(err).WithFields(logrus.Fields{
			"request_id": RequestID(c),
			"path":       c.Path(),
			"status":     status,
			"kind":       apperr.KindOf(err),
		})
		if status >= fiber.StatusInternalServerError {
			entry.Error("request_failed")
		} else {
			entry.Debug("request_rejected")
		}
		return Fail(c, status, messageFor(err, status))
	}
}
