package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/langbridge/billing/internal/infrastructure/config"
	"github.com/langbridge/billing/internal/infrastructure/persistence"
)

func newTestDatabase(t *testing.T) *persistence.Database {
	t.Helper()
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return &persistence.Database{DB: gormDB}
}

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler(newTestDatabase(t), config.HealthConfig{}, zap.NewNop())

	router := gin.New()
	router.GET("/health", h.Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.NotContains(t, body, "db_stats")
}

func TestSystemHandler_Health_DetailRequiresPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	h := NewSystemHandler(newTestDatabase(t), config.HealthConfig{PasswordHash: string(hash)}, zap.NewNop())

	router := gin.New()
	router.GET("/health", h.Health)

	// without password: no detail
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body, "db_stats")

	// wrong password: still no detail
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Health-Password", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body, "db_stats")

	// correct password: pool stats included
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Health-Password", "s3cret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "db_stats")
	assert.Contains(t, body, "uptime")
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler(newTestDatabase(t), config.HealthConfig{}, zap.NewNop())

	router := gin.New()
	router.GET("/system/info", h.GetSystemInfo)

	req := httptest.NewRequest(http.MethodGet, "/system/info", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Billing Service API")
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler(newTestDatabase(t), config.HealthConfig{}, zap.NewNop())

	router := gin.New()
	router.GET("/system/ping", h.Ping)

	req := httptest.NewRequest(http.MethodGet, "/system/ping", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}
