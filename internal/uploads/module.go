// Package uploads provides the admin image upload module backed by the
// object store.
package uploads

import (
	apphttp "retiros_backend/internal/http"
	"retiros_backend/internal/storage"
	"retiros_backend/internal/uploads/handler"
	"retiros_backend/platform/logger"
)

// Module is the uploads module implementing http.Module. It is only mounted
// when object storage is configured.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the uploads module.
func NewModule(uploader storage.Uploader, log *logger.Logger) *Module {
	return &Module{handler: handler.New(uploader, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "uploads"
}

// RegisterRoutes mounts upload routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	admin := ctx.Admin.Group("/uploads")
	admin.POST("/:kind", m.handler.Upload)
	admin.DELETE("", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
