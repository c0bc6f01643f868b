package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"

	"github.com/mealsync/api/internal/infrastructure/config"
)

// HealthHandlers handles health and readiness probes
type HealthHandlers struct {
	db      *gorm.DB
	config  *config.Config
	logger  *zap.Logger
	started time.Time
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		config:  cfg,
		logger:  logger,
		started: time.Now(),
	}
}

// Health handles GET /health. Liveness only, no dependency checks.
func (h *HealthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    h.config.App.Name,
		"version": h.config.App.Version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// Ready handles GET /ready. Fails when the database is unreachable.
func (h *HealthHandlers) Ready(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
