package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedauth "ritual-backend/internal/shared/auth"
	"ritual-backend/internal/users"
)

type recorder struct {
	got []users.User
	err error
}

func (r *recorder) UpsertFromAuth(ctx context.Context, user users.User) error {
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, user)
	return nil
}

func runFinish(t *testing.T, svc *GoogleService, info googleUserInfo) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback", nil)
	svc.finishLogin(c, info)
	return resp
}

func TestFinishLoginIssuesTokenForAdmin(t *testing.T) {
	rec := &recorder{}
	svc := NewGoogleService("id", "secret", "http://localhost/cb", "http://localhost:5173/admin", []string{" Owner@Example.com "}, rec)

	resp := runFinish(t, svc, googleUserInfo{Sub: "42", Email: "owner@example.com", Name: "Giulia"})

	require.Equal(t, http.StatusFound, resp.Code)
	loc, err := url.Parse(resp.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/admin", loc.Path)
	claims, err := sharedauth.VerifyJWT(loc.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, "google:42", claims.Sub)
	assert.Equal(t, "owner@example.com", claims.Email)
	require.Len(t, rec.got, 1)
	assert.Equal(t, "google:42", rec.got[0].ID)
}

func TestFinishLoginRejectsNonAdmin(t *testing.T) {
	rec := &recorder{}
	svc := NewGoogleService("id", "secret", "http://localhost/cb", "http://localhost:5173/admin", []string{"owner@example.com"}, rec)

	resp := runFinish(t, svc, googleUserInfo{Sub: "7", Email: "visitor@example.com"})

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Empty(t, rec.got)
}

func TestFinishLoginRejectsUnverifiedEmail(t *testing.T) {
	verified := false
	svc := NewGoogleService("id", "secret", "http://localhost/cb", "http://ui", []string{"owner@example.com"}, nil)

	resp := runFinish(t, svc, googleUserInfo{Sub: "42", Email: "owner@example.com", VerifiedEmail: &verified})

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestFinishLoginReportsRecorderFailure(t *testing.T) {
	svc := NewGoogleService("id", "secret", "http://localhost/cb", "http://ui", []string{"owner@example.com"}, &recorder{err: errors.New("db down")})

	resp := runFinish(t, svc, googleUserInfo{Sub: "42", Email: "owner@example.com"})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestStartRedirectsToGoogle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewGoogleService("client-id", "secret", "http://localhost/cb", "http://ui", nil, nil)
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusFound, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Header().Get("Location"), "https://accounts.google.com/"))
	assert.Contains(t, resp.Header().Get("Location"), "client_id=client-id")
}

func TestStartWithoutConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewGoogleService("", "", "", "", nil, nil)
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewGoogleService("id", "secret", "http://localhost/cb", "http://ui", nil, nil)
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=nope&code=abc", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStateStoreConsumesOnce(t *testing.T) {
	store := newStateStore()
	store.put("a", time.Now().Add(time.Minute))
	store.put("old", time.Now().Add(-time.Second))

	assert.True(t, store.consume("a"))
	assert.False(t, store.consume("a"))
	assert.False(t, store.consume("old"))
}

func TestAppendToken(t *testing.T) {
	got, err := appendToken("http://ui/admin?tab=leads", "abc")
	require.NoError(t, err)
	assert.Equal(t, "http://ui/admin?tab=leads&token=abc", got)

	_, err = appendToken("", "abc")
	assert.Error(t, err)
}
