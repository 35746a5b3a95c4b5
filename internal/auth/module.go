// Package auth provides the authentication bounded context module: one-time
// admin setup, login with session cookies, and password management.
package auth

import (
	apphttp "retiros_backend/internal/http"
	"retiros_backend/internal/auth/handler"
	"retiros_backend/internal/auth/repository"
	"retiros_backend/internal/auth/service"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/config"
	"retiros_backend/platform/logger"
	"retiros_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthConfig, clk clock.Clock, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, clk, log)
	h := handler.New(svc, cfg, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context. Setup and
// login carry the stricter auth rate limit to slow brute forcing.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/auth/setup", ctx.AuthRateLimiter.RateLimit(), m.handler.Setup)
	ctx.V1.POST("/auth/login", ctx.AuthRateLimiter.RateLimit(), m.handler.Login)

	admin := ctx.Admin.Group("/auth")
	admin.GET("/me", m.handler.Me)
	admin.POST("/logout", m.handler.Logout)
	admin.PUT("/password", m.handler.ChangePassword)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
