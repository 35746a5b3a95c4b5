// Package tokens provides the testimonial-token bounded context module:
// batch generation for completed retreats, public validation, and the admin
// token lifecycle.
package tokens

import (
	apphttp "retiros_backend/internal/http"
	"retiros_backend/internal/tokens/handler"
	"retiros_backend/internal/tokens/repository"
	"retiros_backend/internal/tokens/service"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
	"retiros_backend/platform/token"
	"retiros_backend/platform/validator"

	"retiros_backend/internal/events"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tokens bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the tokens module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	retreats service.RetreatReader,
	participants service.ParticipantLister,
	notifier service.Notifier,
	gen token.Generator,
	clk clock.Clock,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, retreats, participants, notifier, gen, clk, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tokens"
}

// Service returns the service layer for cross-module wiring and the scheduler.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository. The testimonials module consumes it for
// token redemption.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts token routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/testimonials/token/:token", ctx.PublicRateLimiter.RateLimit(), m.handler.Validate)

	ctx.Admin.POST("/retreats/:id/tokens", m.handler.Generate)

	admin := ctx.Admin.Group("/tokens")
	admin.GET("", m.handler.List)
	admin.GET("/:id", m.handler.Get)
	admin.POST("/:id/regenerate", m.handler.Regenerate)
	admin.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
