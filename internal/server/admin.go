package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

// AdminRole 是管理端 token 必须携带的角色声明。
const AdminRole = "admin"

// ErrUnauthorized 表示缺少或无效的管理端凭证。
var ErrUnauthorized = errors.New("unauthorized")

// AdminGate 校验管理端 bearer token；签发不在本服务内完成。
type AdminGate interface {
	Authorize(token string) error
}

// AdminClaims 是管理端 JWT 的声明结构。
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTGate 用 HS256 共享密钥校验 token。
type JWTGate struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTGate 构造 JWTGate，secret 为空时返回错误。
func NewJWTGate(secret string) (*JWTGate, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("admin jwt secret required")
	}
	return &JWTGate{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

// Authorize 校验签名、有效期与角色。
func (g *JWTGate) Authorize(token string) error {
	claims := &AdminClaims{}
	_, err := g.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return g.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Role != AdminRole {
		return fmt.Errorf("%w: role %q is not allowed", ErrUnauthorized, claims.Role)
	}
	return nil
}

// RequireAdmin 返回管理端路由的鉴权中间件；gate 为 nil 表示未启用管理端，一律拒绝。
func RequireAdmin(gate AdminGate) fiber.Handler {
	return func(c fiber.Ctx) error {
		if gate == nil {
			return fmt.Errorf("%w: admin access is disabled", ErrUnauthorized)
		}
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
		}
		if err := gate.Authorize(strings.TrimSpace(token)); err != nil {
			return err
		}
		return c.Next()
	}
}
