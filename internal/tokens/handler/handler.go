package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"retiros_backend/internal/tokens/service"
	"retiros_backend/internal/tokens/transport"
	"retiros_backend/platform/httpkit"
	"retiros_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid token ID"
	msgInvalidRetreatID = "invalid retreat ID"
)

// Handler handles HTTP requests for testimonial tokens.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new token handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Generate creates tokens for every confirmed participant of a retreat.
// POST /api/v1/admin/retreats/:id/tokens
func (h *Handler) Generate(c *gin.Context) {
	retreatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRetreatID, nil)
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), retreatID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Validate resolves a token for the public testimonial form.
// GET /api/v1/testimonials/token/:token
func (h *Handler) Validate(c *gin.Context) {
	result, err := h.svc.Validate(c.Request.Context(), c.Param("token"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List retrieves tokens with admin filters and aggregate stats.
// GET /api/v1/admin/tokens
func (h *Handler) List(c *gin.Context) {
	var req transport.ListTokensRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldMessages(err))
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get retrieves a single token.
// GET /api/v1/admin/tokens/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Regenerate issues a fresh token string for an unused token.
// POST /api/v1/admin/tokens/:id/regenerate
func (h *Handler) Regenerate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.Regenerate(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a token.
// DELETE /api/v1/admin/tokens/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}
