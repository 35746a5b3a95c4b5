package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retiros_backend/internal/storage"
	"retiros_backend/platform/httpkit"
	"retiros_backend/platform/logger"
)

// uploadFolders maps the URL kind segment to an object-store folder. Unknown
// kinds are rejected rather than creating arbitrary folders.
var uploadFolders = map[string]string{
	"retreats":     "retreats",
	"testimonials": "testimonials",
	"site":         "site",
}

// Handler handles HTTP requests for image uploads.
type Handler struct {
	uploader storage.Uploader
	log      *logger.Logger
}

// New creates a new uploads handler.
func New(uploader storage.Uploader, log *logger.Logger) *Handler {
	return &Handler{uploader: uploader, log: log}
}

// Upload stores an image and returns its public URL.
// POST /api/v1/admin/uploads/:kind
func (h *Handler) Upload(c *gin.Context) {
	folder, ok := uploadFolders[c.Param("kind")]
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, "unknown upload kind", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file field", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.uploader.UploadImage(c.Request.Context(),
		folder, fileHeader.Filename, contentType, file, fileHeader.Size)
	if httpkit.HandleError(c, err) {
		return
	}

	h.log.Info("image uploaded", "folder", folder, "fileKey", result.FileKey)
	httpkit.Created(c, result)
}

// Delete removes a stored image by its file key.
// DELETE /api/v1/admin/uploads?fileKey=...
func (h *Handler) Delete(c *gin.Context) {
	fileKey := c.Query("fileKey")
	if fileKey == "" {
		httpkit.Error(c, http.StatusBadRequest, "missing fileKey", nil)
		return
	}

	if err := h.uploader.DeleteImage(c.Request.Context(), fileKey); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}
