package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/langbridge/billing/internal/infrastructure/config"
	"github.com/langbridge/billing/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SystemHandler handles health and system endpoints
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	healthCfg config.HealthConfig
	logger    *zap.Logger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, healthCfg config.HealthConfig, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		db:        db,
		healthCfg: healthCfg,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Health handles GET /health. The plain response reports liveness and a
// database ping. When a health password hash is configured and the caller
// presents the matching password, connection pool statistics are included.
func (h *SystemHandler) Health(c *gin.Context) {
	body := gin.H{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": "ok",
	}

	status := http.StatusOK
	if err := h.db.Ping(); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		body["status"] = "unhealthy"
		body["database"] = "error"
		status = http.StatusServiceUnavailable
	}

	if h.detailAuthorized(c) {
		if stats, err := h.db.Stats(); err == nil {
			body["uptime"] = time.Since(h.startTime).Round(time.Second).String()
			body["db_stats"] = stats
		}
	}

	c.JSON(status, body)
}

// detailAuthorized reports whether the caller may see detailed health output.
// An empty hash disables the detail entirely.
func (h *SystemHandler) detailAuthorized(c *gin.Context) bool {
	if h.healthCfg.PasswordHash == "" {
		return false
	}
	password := c.GetHeader("X-Health-Password")
	if password == "" {
		password = c.Query("password")
	}
	if password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.healthCfg.PasswordHash), []byte(password)) == nil
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo handles GET /system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "Billing Service API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ping handles GET /system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{
		"message":   "pong",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
