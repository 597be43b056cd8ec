package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orris-inc/helpdesk/internal/application/agent/usecases"
	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
	"github.com/orris-inc/helpdesk/internal/infrastructure/config"
	"github.com/orris-inc/helpdesk/internal/infrastructure/migration"
	"github.com/orris-inc/helpdesk/internal/infrastructure/repository"
	sharedConfig "github.com/orris-inc/helpdesk/internal/shared/config"
	"github.com/orris-inc/helpdesk/internal/shared/constants"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(migration.Models()...))
	return gdb
}

func newTestConfig() *config.Config {
	return &config.Config{
		Server: sharedConfig.ServerConfig{Mode: constants.EnvTest, AllowedOrigins: []string{"*"}},
		Auth: sharedConfig.AuthConfig{
			Password: sharedConfig.PasswordConfig{BcryptCost: 4},
			JWT:      sharedConfig.JWTConfig{Secret: "container-test-secret-long-enough", AccessExpMinutes: 5},
		},
		Storage: sharedConfig.StorageConfig{
			Driver:         "mem",
			PublicBaseURL:  "http://files.test",
			SignedURLTTL:   time.Minute,
			MaxUploadBytes: 1 << 20,
		},
		Events: sharedConfig.EventsConfig{Driver: "inline", RelayInterval: time.Second},
		Support: sharedConfig.SupportConfig{
			DefaultAuthorName:  "Support Agent",
			DefaultAuthorEmail: "support@helpdesk.local",
		},
	}
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestContainer_EndToEnd(t *testing.T) {
	gdb := newTestDB(t)
	cfg := newTestConfig()

	c, err := NewContainer(gdb, cfg, "test", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)
	c.SetupRoutes()
	engine := c.GetEngine()

	w := doJSON(t, engine, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/tickets", "", map[string]any{
		"name":        "Jane Customer",
		"email":       "jane@example.com",
		"description": "The app crashes when I open settings.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, "/api/v1/tickets/active", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jane@example.com")

	w = doJSON(t, engine, http.MethodGet, "/api/v1/admin/tickets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, err = usecases.NewCreateAgentUseCase(
		repository.NewAgentRepository(gdb, logger.NewNop()),
		auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost),
		logger.NewNop(),
	).Execute(context.Background(), usecases.CreateAgentCommand{
		Name:     "Sam Agent",
		Email:    "sam@helpdesk.local",
		Password: "correct-horse",
		Role:     "agent",
	})
	require.NoError(t, err)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "sam@helpdesk.local",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.AccessToken)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/admin/tickets?status=NEW", login.Data.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The app crashes when I open settings.")

	w = doJSON(t, engine, http.MethodGet, "/api/v1/admin/tickets/counts", login.Data.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"new":1`)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/admin/agents", login.Data.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNewContainer_RejectsUnknownStorageDriver(t *testing.T) {
	cfg := newTestConfig()
	cfg.Storage.Driver = "floppy"

	_, err := NewContainer(newTestDB(t), cfg, "test", logger.NewNop())
	assert.Error(t, err)
}
