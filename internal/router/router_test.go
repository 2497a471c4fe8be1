package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/handlers"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/cache"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/metrics"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: "test", BaseURL: "http://localhost:8080"},
		JWT:       config.JWTConfig{SecretKey: "secret", Issuer: "go-tinybox", ExpiresIn: time.Hour},
		RateLimit: config.RateLimitConfig{ShareRequests: 10, ShareWindow: time.Minute},
	}
	h := Handlers{
		Auth:  handlers.NewAuthHandler(nil),
		User:  handlers.NewUserHandler(nil),
		File:  handlers.NewFileHandler(nil),
		Share: handlers.NewShareHandler(nil),
	}
	return InitRouter(h, cache.NewRedisCache(client), metrics.New(), cfg)
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/ping", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/files", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/shares", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/shares/1/qrcode", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/users/me", http.StatusUnauthorized},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestRoutes_RequestIDHeader(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
