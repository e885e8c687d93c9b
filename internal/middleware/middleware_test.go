package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() { gin.SetMode(gin.TestMode) }

func signToken(t *testing.T, secret, rol string, exp time.Time) string {
	t.Helper()
	claims := JWTClaims{
		UserID:   uuid.NewString(),
		Username: "ana",
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func protected(roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", JWTAuth(testSecret), RequireRole(roles...), func(c *gin.Context) {
		c.String(http.StatusOK, UsuarioID(c).String())
	})
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := protected(RolVendedor, RolSupervisor)
	future := time.Now().Add(time.Hour)

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, signToken(t, "other", RolVendedor, future)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, signToken(t, testSecret, RolVendedor, time.Now().Add(-time.Minute))).Code)
	assert.Equal(t, http.StatusForbidden, do(r, signToken(t, testSecret, "cliente", future)).Code)

	w := do(r, signToken(t, testSecret, RolSupervisor, future))
	assert.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(2, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
	w := do(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiterWindowResets(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := &rateLimiter{entries: map[string]*rateEntry{}, limit: 1, window: time.Minute, now: func() time.Time { return now }}

	ok, _ := rl.allow("1.1.1.1")
	assert.True(t, ok)
	ok, wait := rl.allow("1.1.1.1")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, wait)

	now = now.Add(61 * time.Second)
	ok, _ = rl.allow("1.1.1.1")
	assert.True(t, ok)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/x", func(c *gin.Context) { panic("boom") })

	w := do(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error interno del servidor"}`, w.Body.String())
}
