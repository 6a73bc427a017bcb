package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ritual-backend/internal/diagnostic"
	"ritual-backend/internal/leads"
	"ritual-backend/internal/rituals"
	"ritual-backend/internal/shared/auth"
	"ritual-backend/internal/shared/config"
	"ritual-backend/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ritualSvc := rituals.NewService(rituals.NewMemoryRepo())
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	return NewRouter(RouterDeps{
		Config:            config.Config{AdminEmails: []string{"owner@example.com"}},
		DiagnosticHandler: diagnostic.NewHandler(diagnostic.NewService(diagnostic.NewMemoryRepo(), diagnostic.FirstPicker())),
		RitualHandler:     rituals.NewHandler(ritualSvc),
		LeadHandler:       leads.NewHandler(leads.NewService(leads.NewMemoryRepo(), ritualSvc)),
		RateLimiter:       middleware.NewRateLimiter(func() time.Time { return now }),
	})
}

func do(t *testing.T, r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func signFor(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.SignJWT(auth.Claims{Sub: "google:42", Email: email})
	require.NoError(t, err)
	return token
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	resp := do(t, r, http.MethodGet, "/api/v1/health", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true,"database":"memory"}`, resp.Body.String())

	do(t, r, http.MethodPost, "/api/v1/diagnostic/match", `{"text":"collo rigido"}`, "")
	resp = do(t, r, http.MethodGet, "/api/v1/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "diagnostic_match_total")
}

func TestAdminRoutesRequireAllowlistedEmail(t *testing.T) {
	r := newTestRouter(t)

	resp := do(t, r, http.MethodGet, "/api/v1/admin/diagnostic/config", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = do(t, r, http.MethodGet, "/api/v1/admin/diagnostic/config", "", signFor(t, "visitor@example.com"))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = do(t, r, http.MethodGet, "/api/v1/admin/diagnostic/config", "", signFor(t, "Owner@Example.com"))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = do(t, r, http.MethodGet, "/api/v1/admin/services", "", signFor(t, "owner@example.com"))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestInvalidTokenRejectedOnPublicRoute(t *testing.T) {
	r := newTestRouter(t)

	resp := do(t, r, http.MethodGet, "/api/v1/services", "", "not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	r := newTestRouter(t)

	resp := do(t, r, http.MethodGet, "/api/v1/nope", "", "")

	require.Equal(t, http.StatusNotFound, resp.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestLeadsAreRateLimited(t *testing.T) {
	r := newTestRouter(t)
	burst := DefaultRateLimits()[rateGroupLeads].Burst
	body := `{"name":"Anna","email":"anna@example.com"}`

	for i := 0; i < burst; i++ {
		resp := do(t, r, http.MethodPost, "/api/v1/leads", body, "")
		require.Equal(t, http.StatusCreated, resp.Code, "lead %d", i+1)
	}

	resp := do(t, r, http.MethodPost, "/api/v1/leads", body, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))

	resp = do(t, r, http.MethodGet, "/api/v1/services", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
	assert.True(t, strings.HasPrefix(Addr("1"), ":"))
}
