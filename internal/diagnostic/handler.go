package diagnostic

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ritual-backend/internal/shared/server/respond"
)

const maxMatchBodySize = 16 << 10

// Handler exposes the matcher and its admin configuration over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches public routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/diagnostic/match", h.match)
}

// RegisterAdminRoutes attaches configuration routes to an admin-only group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/diagnostic/config", h.getConfig)
	rg.PUT("/diagnostic/config", h.putConfig)
	rg.POST("/diagnostic/reload", h.reload)
}

type matchRequest struct {
	Text string `json:"text"`
}

type matchResponse struct {
	Category  Category `json:"category"`
	Treatment string   `json:"treatment"`
	Reasoning string   `json:"reasoning"`
	Oil       string   `json:"oil"`
}

func toMatchResponse(category Category, rec Recommendation) matchResponse {
	return matchResponse{
		Category:  category,
		Treatment: rec.Treatment,
		Reasoning: rec.Reasoning,
		Oil:       rec.Oil,
	}
}

func (h *Handler) match(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMatchBodySize)

	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	res := h.Svc.Match(req.Text)
	c.Set("diagnosticCategory", string(res.Category))
	respond.OK(c, toMatchResponse(res.Category, res.Recommendation))
}

func (h *Handler) getConfig(c *gin.Context) {
	respond.OK(c, h.Svc.Tables())
}

func (h *Handler) putConfig(c *gin.Context) {
	var tables Tables
	if err := c.ShouldBindJSON(&tables); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	if err := h.Svc.SaveConfig(c.Request.Context(), tables); err != nil {
		switch {
		case errors.Is(err, ErrInvalidTables):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "save_failed", "failed to save configuration", nil)
		}
		return
	}

	respond.OK(c, h.Svc.Tables())
}

func (h *Handler) reload(c *gin.Context) {
	tables, err := h.Svc.LoadConfig(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no stored configuration", nil)
		case errors.Is(err, ErrInvalidTables):
			respond.Error(c, http.StatusUnprocessableEntity, "invalid_config", err.Error(), nil)
		default:
			respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "configuration storage unavailable", nil)
		}
		return
	}
	respond.OK(c, tables)
}
