package media

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ritual-backend/internal/shared/server/middleware"
	"ritual-backend/internal/shared/server/respond"
	"ritual-backend/internal/shared/telemetry"
)

const publicPrefix = "/api/v1/media/"

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches public media delivery.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/media/*key", h.serve)
}

// RegisterAdminRoutes attaches the upload endpoint.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/media", h.upload)
	rg.POST("/media/presign", h.presign)
}

type presignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type presignResponse struct {
	UploadURL        string            `json:"uploadUrl"`
	Method           string            `json:"method"`
	Fields           map[string]string `json:"fields"`
	Key              string            `json:"key"`
	URL              string            `json:"url"`
	ExpiresInSeconds int64             `json:"expiresInSeconds"`
}

func (h *Handler) presign(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	up, err := h.Svc.Presign(c.Request.Context(), middleware.UserIDFromContext(c), req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		switch {
		case errors.Is(err, ErrDirectUploadDenied):
			respond.Error(c, http.StatusNotImplemented, "not_supported", "direct uploads require the S3 object store", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "file exceeds 10MB", nil)
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "only JPEG, PNG, WebP and GIF images are accepted", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate upload url", nil)
		}
		return
	}

	c.Set("mediaKey", up.Key)
	respond.OK(c, presignResponse{
		UploadURL:        up.URL,
		Method:           up.Method,
		Fields:           up.Fields,
		Key:              up.Key,
		URL:              publicPrefix + up.Key,
		ExpiresInSeconds: int64(up.ExpiresIn.Seconds()),
	})
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+(1<<20))

	fh, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart field \"file\" is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable upload", nil)
		return
	}
	defer f.Close()

	obj, err := h.Svc.Upload(c.Request.Context(), middleware.UserIDFromContext(c), fh.Filename, fh.Size, f)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "file exceeds 10MB", nil)
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "only JPEG, PNG, WebP and GIF images are accepted", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "upload_failed", "failed to store file", nil)
		}
		return
	}

	c.Set("mediaKey", obj.Key)
	respond.JSON(c, http.StatusCreated, gin.H{
		"key":         obj.Key,
		"url":         publicPrefix + obj.Key,
		"sizeBytes":   obj.SizeBytes,
		"contentType": obj.ContentType,
	})
}

func (h *Handler) serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	c.Set("mediaKey", key)

	rc, contentType, err := h.Svc.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "media not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open media", nil)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400, immutable")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("media.serve_interrupted", map[string]any{"key": key, "error": err.Error()})
	}
}
