package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agromitra/agromitra/internal/config"
	"github.com/agromitra/agromitra/internal/weather"
)

type SourcesHandler struct {
	cfg    config.SourcesConfig
	logger *zap.Logger
}

func NewSourcesHandler(cfg config.SourcesConfig, logger *zap.Logger) *SourcesHandler {
	return &SourcesHandler{
		cfg:    cfg,
		logger: logger,
	}
}

// ListSources serves GET /sources: the failover chain's configuration
// state and declared trust scores, recomputed per request, no network
// calls.
func (h *SourcesHandler) ListSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sources": weather.SourceStatuses(h.cfg),
	})
}
