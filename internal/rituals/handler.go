package rituals

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ritual-backend/internal/shared/server/respond"
)

// Handler exposes the services catalogue.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches public catalogue routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.listPublic)
	rg.GET("/services/:slug", h.getPublic)
}

// RegisterAdminRoutes attaches catalogue management routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.listAll)
	rg.POST("/services", h.create)
	rg.PUT("/services/:id", h.update)
	rg.DELETE("/services/:id", h.delete)
}

func (h *Handler) listPublic(c *gin.Context) {
	items, err := h.Svc.ListPublic(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"items": items})
}

func (h *Handler) getPublic(c *gin.Context) {
	item, err := h.Svc.GetPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("ritualId", item.ID)
	respond.OK(c, item)
}

func (h *Handler) listAll(c *gin.Context) {
	items, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"items": items})
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	item, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("ritualId", item.ID)
	respond.JSON(c, http.StatusCreated, item)
}

func (h *Handler) update(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set("ritualId", c.Param("id"))
	item, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, item)
}

func (h *Handler) delete(c *gin.Context) {
	c.Set("ritualId", c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "service not found", nil)
	case errors.Is(err, ErrSlugTaken):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process request", nil)
	}
}
