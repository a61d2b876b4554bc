package handler

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ridgeline/backend/internal/infrastructure/storage"
	"github.com/ridgeline/backend/internal/interfaces/http/dto"
)

// FileHandler issues presigned URLs for job-site photos and documents.
// Bytes never flow through the API; clients talk to object storage directly.
type FileHandler struct {
	documents storage.DocumentStorage
	urlExpiry time.Duration
}

// NewFileHandler creates a new file handler
func NewFileHandler(documents storage.DocumentStorage, urlExpiry time.Duration) *FileHandler {
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	return &FileHandler{documents: documents, urlExpiry: urlExpiry}
}

// UploadURLRequest asks for a presigned PUT URL
type UploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required,max=200"`
	ContentType string `json:"contentType" binding:"required,max=100"`
}

// PresignedURLResponse carries a presigned URL and its storage key
type PresignedURLResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateUploadURL issues a presigned PUT URL under the tenant's prefix
// POST /api/v1/files/upload-url
func (h *FileHandler) CreateUploadURL(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	name := path.Base(req.FileName)
	if name == "." || name == "/" || strings.ContainsAny(name, "\\") {
		respondBadRequest(c, "Invalid file name")
		return
	}

	key := fmt.Sprintf("tenants/%s/uploads/%s-%s", tid, uuid.New(), name)
	url, expiresAt, err := h.documents.GenerateUploadURL(c.Request.Context(), key, req.ContentType, h.urlExpiry)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, PresignedURLResponse{Key: key, URL: url, ExpiresAt: expiresAt})
}

// CreateDownloadURL issues a presigned GET URL for a stored object
// GET /api/v1/files/download-url?key=...
func (h *FileHandler) CreateDownloadURL(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	key := c.Query("key")
	// Tenant isolation: a tenant may only fetch objects under its own prefix.
	prefix := fmt.Sprintf("tenants/%s/", tid)
	if key == "" || !strings.HasPrefix(key, prefix) || strings.Contains(key, "..") {
		respondBadRequest(c, "Invalid object key")
		return
	}

	exists, err := h.documents.Exists(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("NOT_FOUND", "Object not found"))
		return
	}

	url, expiresAt, err := h.documents.GenerateDownloadURL(c.Request.Context(), key, h.urlExpiry)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, PresignedURLResponse{Key: key, URL: url, ExpiresAt: expiresAt})
}

// DeleteObject removes a stored object under the tenant's prefix
// DELETE /api/v1/files?key=...
func (h *FileHandler) DeleteObject(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	key := c.Query("key")
	prefix := fmt.Sprintf("tenants/%s/", tid)
	if key == "" || !strings.HasPrefix(key, prefix) || strings.Contains(key, "..") {
		respondBadRequest(c, "Invalid object key")
		return
	}

	if err := h.documents.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
