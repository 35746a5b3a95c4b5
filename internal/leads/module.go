// Package leads provides the leads bounded context module: public inquiry
// intake with admission control, and the admin pipeline over those inquiries.
package leads

import (
	apphttp "retiros_backend/internal/http"
	"retiros_backend/internal/leads/handler"
	"retiros_backend/internal/leads/repository"
	"retiros_backend/internal/leads/service"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
	"retiros_backend/platform/validator"

	"retiros_backend/internal/events"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, retreats service.RetreatReader, clk clock.Clock, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, retreats, clk, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository. The retreats module consumes it as its
// confirmed-participant counter.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/leads", ctx.PublicRateLimiter.RateLimit(), m.handler.Create)

	admin := ctx.Admin.Group("/leads")
	admin.GET("", m.handler.List)
	admin.GET("/stats", m.handler.Stats)
	admin.GET("/:id", m.handler.Get)
	admin.PUT("/:id", m.handler.Update)
	admin.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
