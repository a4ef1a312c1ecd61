package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"orderservice/api/response"
	"orderservice/config"
	"orderservice/infrastructure/metrics"
	"orderservice/infrastructure/persistence"
	"orderservice/infrastructure/userdirectory"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDPropagatesToContext(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	var fromCtx, fromGin string
	r.GET("/", func(c *gin.Context) {
		fromCtx = persistence.RequestIDFromContext(c.Request.Context())
		fromGin = response.GetRequestID(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc", fromCtx)
	assert.Equal(t, "abc", fromGin)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestPrincipalMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(PrincipalMiddleware())
	var got Principal
	var authenticated bool
	var token string
	r.GET("/", func(c *gin.Context) {
		got, authenticated = PrincipalFrom(c)
		token = userdirectory.TokenFromContext(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, "u-1")
	req.Header.Set(UserRoleHeader, "ROLE_user, admin")
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, authenticated)
	assert.Equal(t, "u-1", got.ID)
	assert.True(t, got.IsAdmin())
	assert.True(t, got.HasRole(RoleUser))
	assert.Equal(t, "tok", token)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, authenticated)
	assert.Empty(t, token)
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.Use(PrincipalMiddleware())
	r.GET("/admin", RequireRole(RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/any", RequireAuthenticated(), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		path, user, roles string
		want              int
	}{
		{"/admin", "", "", http.StatusUnauthorized},
		{"/admin", "u-1", "USER", http.StatusForbidden},
		{"/admin", "u-1", "ADMIN", http.StatusOK},
		{"/any", "", "", http.StatusUnauthorized},
		{"/any", "u-1", "", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.user != "" {
			req.Header.Set(UserIDHeader, tc.user)
			req.Header.Set(UserRoleHeader, tc.roles)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, "%s as %q/%q", tc.path, tc.user, tc.roles)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(&config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 1}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{
		AllowOrigins: []string{"https://shop.example"},
		AllowMethods: []string{"GET", "POST"},
		MaxAge:       600,
	}))
	r.GET("/", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://shop.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())
	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/2", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/orders/:id", "GET", "200")))
}
