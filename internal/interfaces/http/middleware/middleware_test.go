package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
	"github.com/orris-inc/helpdesk/internal/infrastructure/ratelimit"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/constants"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubEnforcer struct {
	allowed bool
	err     error
	calls   [][3]string
}

func (s *stubEnforcer) Enforce(role, resource, action string) (bool, error) {
	s.calls = append(s.calls, [3]string{role, resource, action})
	return s.allowed, s.err
}

type stubLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ ratelimit.Limits) (ratelimit.Decision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func (s *stubLimiter) Reset(context.Context, string) error { return nil }

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret-key-that-is-long-enough", 10)
	pair, err := jwtSvc.Generate(auth.AgentIdentity{
		ID:    7,
		Name:  "Sam Agent",
		Email: "sam@helpdesk.local",
		Role:  authorization.RoleAgent,
	})
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/me", NewAuthMiddleware(jwtSvc, logger.NewNop()).RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":    c.MustGet(constants.ContextKeyAgentID),
			"name":  c.GetString(constants.ContextKeyAgentName),
			"email": c.GetString(constants.ContextKeyAgentEmail),
			"role":  c.GetString(constants.ContextKeyAgentRole),
		})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + pair.AccessToken, http.StatusOK},
		{"lowercase scheme", "bearer " + pair.AccessToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(engine, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"email":"sam@helpdesk.local"`)
				assert.Contains(t, w.Body.String(), `"role":"agent"`)
			}
		})
	}
}

func TestPermissionMiddleware(t *testing.T) {
	newEngine := func(enf *stubEnforcer, role string) *gin.Engine {
		engine := gin.New()
		engine.GET("/x", func(c *gin.Context) {
			if role != "" {
				c.Set(constants.ContextKeyAgentRole, role)
			}
		}, NewPermissionMiddleware(enf, logger.NewNop()).RequirePermission("tickets", "read"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return engine
	}

	t.Run("allowed", func(t *testing.T) {
		enf := &stubEnforcer{allowed: true}
		w := serve(newEngine(enf, "agent"), httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, [][3]string{{"agent", "tickets", "read"}}, enf.calls)
	})

	t.Run("denied", func(t *testing.T) {
		w := serve(newEngine(&stubEnforcer{}, "agent"), httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no identity", func(t *testing.T) {
		enf := &stubEnforcer{allowed: true}
		w := serve(newEngine(enf, ""), httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, enf.calls)
	})

	t.Run("enforcer error", func(t *testing.T) {
		w := serve(newEngine(&stubEnforcer{err: errors.New("db down")}, "agent"), httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	newEngine := func(l *stubLimiter) *gin.Engine {
		engine := gin.New()
		rl := NewRateLimiter(l, ratelimit.Limits{RequestsPerMinute: 10}, "submit", logger.NewNop())
		engine.POST("/t", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusCreated) })
		return engine
	}

	t.Run("allowed sets headers", func(t *testing.T) {
		l := &stubLimiter{decision: ratelimit.Decision{Allowed: true, Limit: 10, Remaining: 9}}
		req := httptest.NewRequest(http.MethodPost, "/t", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		w := serve(newEngine(l), req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, []string{"submit:203.0.113.9"}, l.keys)
	})

	t.Run("blocked", func(t *testing.T) {
		l := &stubLimiter{decision: ratelimit.Decision{Allowed: false, Limit: 10, RetryAfter: time.Minute}}
		w := serve(newEngine(l), httptest.NewRequest(http.MethodPost, "/t", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "rate_limited")
	})

	t.Run("limiter failure fails open", func(t *testing.T) {
		l := &stubLimiter{err: errors.New("redis down")}
		w := serve(newEngine(l), httptest.NewRequest(http.MethodPost, "/t", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://app.example.com"}))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := serve(engine, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(engine, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDAndRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID(), Recovery(logger.NewNop()))
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })
	engine.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID)) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-123")
	w = serve(engine, req)
	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(constants.HeaderXRequestID))
}
