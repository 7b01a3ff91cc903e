package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agromitra/agromitra/internal/advisory"
	"github.com/agromitra/agromitra/internal/server/utils"
	"github.com/agromitra/agromitra/internal/weather"
)

type AlertsHandler struct {
	fetcher   *weather.Fetcher
	generator *advisory.Generator
	logger    *zap.Logger
}

func NewAlertsHandler(fetcher *weather.Fetcher, generator *advisory.Generator, logger *zap.Logger) *AlertsHandler {
	return &AlertsHandler{
		fetcher:   fetcher,
		generator: generator,
		logger:    logger,
	}
}

// GenerateAlerts serves POST /alerts: fetches a fresh snapshot through
// the failover chain and evaluates the advisory rules against it. The
// response carries provenance so callers can discount alerts derived
// from simulated weather.
func (h *AlertsHandler) GenerateAlerts(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)

	reqLogger := h.logger.With(zap.String("request_id", requestID))

	var req AlertsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reqLogger.Warn("Invalid alerts request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	snap, err := h.fetcher.Fetch(ctx, req.Location)
	if err != nil {
		if weather.IsValidation(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_PARAMS"})
			return
		}
		reqLogger.Error("Weather fetch for alerts failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to evaluate alerts",
			Code:  "FETCH_ERROR",
		})
		return
	}

	alerts := h.generator.Generate(snap, req.Market, req.Crop)
	if alerts == nil {
		alerts = []advisory.Alert{}
	}

	reqLogger.Info("Alerts generated",
		zap.String("location", req.Location),
		zap.Int("count", len(alerts)),
		zap.Bool("simulated", snap.IsSimulated))

	c.JSON(http.StatusOK, AlertsResponse{
		Location:    snap.Location.DisplayName,
		Source:      snap.SourceName,
		IsSimulated: snap.IsSimulated,
		Alerts:      alerts,
	})
}
