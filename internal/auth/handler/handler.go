package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"retiros_backend/internal/auth/service"
	"retiros_backend/internal/auth/transport"
	"retiros_backend/platform/config"
	"retiros_backend/platform/httpkit"
	"retiros_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	svc *service.Service
	cfg config.AuthConfig
	val *validator.Validator
}

// New creates a new auth handler.
func New(svc *service.Service, cfg config.AuthConfig, val *validator.Validator) *Handler {
	return &Handler{svc: svc, cfg: cfg, val: val}
}

// Setup creates the admin account while none exists.
// POST /api/v1/auth/setup
func (h *Handler) Setup(c *gin.Context) {
	var req transport.SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldMessages(err))
		return
	}

	result, err := h.svc.Setup(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Login authenticates the admin and sets the session cookie.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldMessages(err))
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	h.setSessionCookie(c, result.Token)
	httpkit.OK(c, result)
}

// Me returns the authenticated admin's profile.
// GET /api/v1/admin/auth/me
func (h *Handler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	result, err := h.svc.Me(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ChangePassword rotates the password and re-issues the session cookie.
// PUT /api/v1/admin/auth/password
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req transport.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, h.val.FieldMessages(err))
		return
	}

	result, err := h.svc.ChangePassword(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	h.setSessionCookie(c, result.Token)
	httpkit.OK(c, result)
}

// Logout clears the session cookie. The stateless JWT stays formally valid
// until expiry; logout is a client-side affordance.
// POST /api/v1/admin/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.GetSessionCookieName(), "", -1, "/", "", h.cfg.GetSessionCookieSecure(), true)
	httpkit.OK(c, gin.H{"message": "logged out"})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.svc.SessionTTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.GetSessionCookieName(), token, maxAge, "/", "", h.cfg.GetSessionCookieSecure(), true)
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(httpkit.ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := raw.(uuid.UUID)
	return userID, ok
}
