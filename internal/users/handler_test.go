package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ritual-backend/internal/shared/auth"
	"ritual-backend/internal/shared/server/middleware"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth())
	admin := r.Group("/api/v1", middleware.RequireAdmin([]string{"owner@example.com"}))
	h := NewHandler(svc)
	h.RegisterRoutes(admin)
	h.RegisterAdminRoutes(admin.Group("/admin"))
	return r
}

func bearer(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.SignJWT(auth.Claims{Sub: "google:1", Email: email, Name: "Giulia"})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestMeReturnsStoredProfile(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	require.NoError(t, svc.UpsertFromAuth(context.Background(), User{
		ID:         "google:1",
		Email:      "Owner@Example.com",
		FullName:   "Giulia Rossi",
		PictureURL: "https://img",
	}))
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", bearer(t, "owner@example.com"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "owner@example.com", body["email"])
	assert.Equal(t, "Giulia Rossi", body["fullName"])
	assert.Equal(t, true, body["isAdmin"])
	assert.Contains(t, body, "lastLoginAt")
}

func TestMeFallsBackToClaims(t *testing.T) {
	r := newTestRouter(NewService(NewMemoryRepo()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", bearer(t, "owner@example.com"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Giulia", body["fullName"])
}

func TestMeRequiresAdmin(t *testing.T) {
	r := newTestRouter(NewService(NewMemoryRepo()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", bearer(t, "visitor@example.com"))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestListUsers(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	require.NoError(t, svc.UpsertFromAuth(ctx, User{ID: "google:1", Email: "owner@example.com"}))
	require.NoError(t, svc.UpsertFromAuth(ctx, User{ID: "google:2", Email: "staff@example.com"}))
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users?limit=1", nil)
	req.Header.Set("Authorization", bearer(t, "owner@example.com"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Items []User `json:"items"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Items, 1)
}

func TestUpsertFromAuthRequiresIdentity(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	assert.Error(t, svc.UpsertFromAuth(context.Background(), User{ID: "google:1"}))
}
