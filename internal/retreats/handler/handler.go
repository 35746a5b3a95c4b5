package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"retiros_backend/internal/retreats/service"
	"retiros_backend/internal/retreats/transport"
	"retiros_backend/platform/httpkit"
	"retiros_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid retreat ID"
)

// Handler handles HTTP requests for retreats.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new retreats handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListPublic retrieves active retreats for the marketing site.
// GET /api/v1/retreats
func (h *Handler) ListPublic(c *gin.Context) {
	var req transport.ListRetreatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.List(c.Request.Context(), req, false)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List retrieves retreats with admin filters.
// GET /api/v1/admin/retreats
func (h *Handler) List(c *gin.Context) {
	var req transport.ListRetreatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldMessages(err))
		return
	}

	result, err := h.svc.List(c.Request.Context(), req, true)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Hero retrieves the landing page retreats.
// GET /api/v1/retreats/hero
func (h *Handler) Hero(c *gin.Context) {
	result, err := h.svc.Hero(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Past retrieves concluded retreats.
// GET /api/v1/retreats/past
func (h *Handler) Past(c *gin.Context) {
	result, err := h.svc.Past(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result, "total": len(result)})
}

// GetPublic retrieves one retreat by ID or slug.
// GET /api/v1/retreats/:idOrSlug
func (h *Handler) GetPublic(c *gin.Context) {
	result, err := h.svc.GetByIDOrSlug(c.Request.Context(), c.Param("idOrSlug"), false)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get retrieves one retreat for the admin panel, including status warnings.
// GET /api/v1/admin/retreats/:id
func (h *Handler) Get(c *gin.Context) {
	result, err := h.svc.GetByIDOrSlug(c.Request.Context(), c.Param("id"), true)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Inconsistent reports retreats whose status contradicts their dates.
// GET /api/v1/admin/retreats/inconsistent
func (h *Handler) Inconsistent(c *gin.Context) {
	result, err := h.svc.Inconsistent(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create creates a retreat.
// POST /api/v1/admin/retreats
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateRetreatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldMessages(err))
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Update applies a partial update to a retreat.
// PUT /api/v1/admin/retreats/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateRetreatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldMessages(err))
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a retreat.
// DELETE /api/v1/admin/retreats/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}
