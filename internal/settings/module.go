// Package settings provides the site configuration bounded context module:
// the active settings singleton with lazy defaults, a redis-backed cache, and
// a redacted public view.
package settings

import (
	apphttp "retiros_backend/internal/http"
	"retiros_backend/internal/settings/handler"
	"retiros_backend/internal/settings/repository"
	"retiros_backend/internal/settings/service"
	"retiros_backend/platform/cache"
	"retiros_backend/platform/logger"
	"retiros_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the settings bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the settings module with all its dependencies.
func NewModule(pool *pgxpool.Pool, c *cache.Cache, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, c, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "settings"
}

// RegisterRoutes mounts settings routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/settings", m.handler.GetPublic)

	admin := ctx.Admin.Group("/settings")
	admin.GET("", m.handler.Get)
	admin.PUT("", m.handler.Update)
	admin.POST("/reset", m.handler.Reset)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
