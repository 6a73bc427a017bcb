package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ritual-backend/internal/shared/server/middleware"
	"ritual-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches /me. The group must run RequireAdmin.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// RegisterAdminRoutes attaches the account listing.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.list)
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}

	response := gin.H{
		"id":         userID,
		"email":      middleware.UserEmailFromContext(c),
		"fullName":   middleware.UserNameFromContext(c),
		"pictureUrl": middleware.UserPictureFromContext(c),
		"isAdmin":    middleware.IsAdmin(c),
	}

	if h.Svc != nil {
		user, err := h.Svc.GetByID(c.Request.Context(), userID)
		switch {
		case err == nil:
			response["email"] = user.Email
			response["fullName"] = user.FullName
			response["pictureUrl"] = user.PictureURL
			if user.LastLoginAt != nil {
				response["lastLoginAt"] = user.LastLoginAt
			}
		case errors.Is(err, ErrNotFound):
			// token issued before the account row existed; claims suffice
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
			return
		}
	}

	respond.JSON(c, http.StatusOK, response)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list users", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"items": items})
}
