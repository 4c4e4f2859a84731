package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predelnews/predelnews-app/internal/pkg/auth"
)

var testSecret = []byte("middleware-test-secret")

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		username := ""
		if v, ok := c.Get(auth.ClaimsKey); ok {
			username = v.(*auth.CustomClaims).Username
		}
		c.String(http.StatusOK, username)
	})
	r.Any("/api/test", handlers...)
	return r
}

func token(t *testing.T, username string, groups ...string) string {
	t.Helper()
	tok, err := auth.GenerateToken(username, groups, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(r http.Handler, method, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/test", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	m := NewMiddleware(testSecret)
	r := newRouter(m.JWTAuth())

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
		wantBody      string
	}{
		{name: "有效Token", authorization: "Bearer " + token(t, "editor"), wantStatus: http.StatusOK, wantBody: "editor"},
		{name: "未携带Token", authorization: "", wantStatus: http.StatusUnauthorized},
		{name: "格式不正确", authorization: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "签名错误", authorization: "Bearer " + token(t, "editor") + "x", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.authorization)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestJWTAuthOptional(t *testing.T) {
	m := NewMiddleware(testSecret)
	r := newRouter(m.JWTAuthOptional())

	w := do(r, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(r, http.MethodGet, "Bearer "+token(t, "reader"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "reader", w.Body.String())

	w = do(r, http.MethodGet, "Bearer broken")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth(t *testing.T) {
	m := NewMiddleware(testSecret)
	r := newRouter(m.JWTAuth(), m.AdminAuth())

	w := do(r, http.MethodGet, "Bearer "+token(t, "admin", auth.AdminGroup))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "Bearer "+token(t, "editor", "editors"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 没有经过 JWTAuth 时上下文中没有用户信息
	w = do(newRouter(m.AdminAuth()), http.MethodGet, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(60, 2)
	t.Cleanup(limiter.Stop)
	r := newRouter(RateLimit(limiter))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "").Code)

	// 不同IP有各自的额度
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("X-Real-IP", "198.51.100.20")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemoveStale(t *testing.T) {
	limiter := NewIPRateLimiter(60, 1)
	t.Cleanup(limiter.Stop)
	now := time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("192.0.2.1")
	now = now.Add(staleLimiterAge + time.Second)
	limiter.Allow("192.0.2.2")

	assert.Equal(t, 1, limiter.removeStale())
	assert.Len(t, limiter.limiters, 1)
}

func TestCors(t *testing.T) {
	r := newRouter(Cors())
	req := httptest.NewRequest(http.MethodOptions, "/api/test", nil)
	req.Header.Set("Origin", "https://predelnews.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://predelnews.com", w.Header().Get("Access-Control-Allow-Origin"))
}
