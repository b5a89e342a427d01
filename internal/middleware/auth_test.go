package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/attendance_backend_v1/internal/auth"
	"github.com/zaqqye/attendance_backend_v1/internal/cache"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store/memstore"
)

type authFixture struct {
	router    *gin.Engine
	issuer    *auth.Issuer
	blacklist *cache.Blacklist
	admin     *models.Admin
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := memstore.New()
	admin := &models.Admin{Username: "root", Password: "hash"}
	require.NoError(t, st.CreateAdmin(context.Background(), admin))

	f := &authFixture{
		issuer:    auth.NewIssuer("access", "refresh", time.Minute, time.Hour),
		blacklist: cache.NewBlacklist(cache.NewMemoryStore()),
		admin:     admin,
	}
	f.router = gin.New()
	f.router.Use(NoCache())
	f.router.GET("/me", AuthMiddleware(st, f.issuer, f.blacklist, logging.Discard()), func(c *gin.Context) {
		admin, ok := CurrentAdmin(c)
		_, hasClaims := CurrentClaims(c)
		if !ok || !hasClaims {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, admin.Username)
	})
	return f
}

func (f *authFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	f := newAuthFixture(t)
	pair, err := f.issuer.IssueTokens(f.admin.ID, f.admin.Username)
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		w := f.do(httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: AccessCookie, Value: pair.AccessToken})
		w := f.do(req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "root", w.Body.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusOK, f.do(req).Code)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, f.do(req).Code)
	})

	t.Run("unknown admin", func(t *testing.T) {
		other, err := f.issuer.IssueTokens("00000000-0000-0000-0000-000000000000", "ghost")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+other.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, f.do(req).Code)
	})
}

func TestAuthMiddlewareRejectsBlacklisted(t *testing.T) {
	f := newAuthFixture(t)
	pair, err := f.issuer.IssueTokens(f.admin.ID, f.admin.Username)
	require.NoError(t, err)
	claims, err := f.issuer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.blacklist.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := f.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 32))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("small")))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
