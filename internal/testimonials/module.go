// Package testimonials provides the testimonials bounded context module:
// public token redemption and approved listings, plus admin moderation.
package testimonials

import (
	apphttp "retiros_backend/internal/http"
	"retiros_backend/internal/testimonials/handler"
	"retiros_backend/internal/testimonials/repository"
	"retiros_backend/internal/testimonials/service"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
	"retiros_backend/platform/validator"

	"retiros_backend/internal/events"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the testimonials bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the testimonials module with all its dependencies.
func NewModule(pool *pgxpool.Pool, clk clock.Clock, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, clk, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "testimonials"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts testimonial routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/testimonials", m.handler.ListPublic)
	ctx.V1.GET("/testimonials/featured", m.handler.Featured)
	ctx.V1.POST("/testimonials/submit", ctx.PublicRateLimiter.RateLimit(), m.handler.Submit)

	admin := ctx.Admin.Group("/testimonials")
	admin.GET("", m.handler.List)
	admin.POST("", m.handler.Create)
	admin.GET("/:id", m.handler.Get)
	admin.PUT("/:id", m.handler.Update)
	admin.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
