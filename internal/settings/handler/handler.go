package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retiros_backend/internal/settings/service"
	"retiros_backend/internal/settings/transport"
	"retiros_backend/platform/httpkit"
	"retiros_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for site settings.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new settings handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetPublic retrieves the public site configuration.
// GET /api/v1/settings
func (h *Handler) GetPublic(c *gin.Context) {
	result, err := h.svc.GetPublic(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get retrieves the full site configuration.
// GET /api/v1/admin/settings
func (h *Handler) Get(c *gin.Context) {
	result, err := h.svc.Get(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Update applies a partial settings patch.
// PUT /api/v1/admin/settings
func (h *Handler) Update(c *gin.Context) {
	var req transport.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldMessages(err))
		return
	}

	result, err := h.svc.Update(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Reset restores the default configuration.
// POST /api/v1/admin/settings/reset
func (h *Handler) Reset(c *gin.Context) {
	result, err := h.svc.Reset(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
