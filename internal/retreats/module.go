// Package retreats provides the retreats bounded context module: the
// catalog of events plus their derived availability, pricing and status.
package retreats

import (
	"retiros_backend/internal/retreats/handler"
	"retiros_backend/internal/retreats/repository"
	"retiros_backend/internal/retreats/service"

	apphttp "retiros_backend/internal/http"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
	"retiros_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the retreats bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the retreats module with all its dependencies.
// The participant counter comes from the leads module; it supplies the
// confirmed-and-paid counts availability is derived from.
func NewModule(pool *pgxpool.Pool, counter service.ParticipantCounter, val *validator.Validator, clk clock.Clock, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, counter, clk, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "retreats"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts retreat routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/retreats")
	public.GET("", m.handler.ListPublic)
	public.GET("/hero", m.handler.Hero)
	public.GET("/past", m.handler.Past)
	public.GET("/:idOrSlug", m.handler.GetPublic)

	admin := ctx.Admin.Group("/retreats")
	admin.GET("", m.handler.List)
	admin.POST("", m.handler.Create)
	admin.GET("/inconsistent", m.handler.Inconsistent)
	admin.GET("/:id", m.handler.Get)
	admin.PUT("/:id", m.handler.Update)
	admin.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
