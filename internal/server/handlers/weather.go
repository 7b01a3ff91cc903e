package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agromitra/agromitra/internal/server/utils"
	"github.com/agromitra/agromitra/internal/weather"
)

type WeatherHandler struct {
	fetcher *weather.Fetcher
	logger  *zap.Logger
}

func NewWeatherHandler(fetcher *weather.Fetcher, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		fetcher: fetcher,
		logger:  logger,
	}
}

// GetWeather serves POST /weather. Upstream failures never reach this
// handler: the fetcher absorbs them tier by tier, so the worst case the
// client sees is a clearly marked simulated forecast.
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)

	reqLogger := h.logger.With(zap.String("request_id", requestID))

	var req WeatherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reqLogger.Warn("Invalid weather request", zap.Error(err))
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
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_PARAMS",
			})
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			reqLogger.Info("Weather request cancelled", zap.String("location", req.Location))
			c.AbortWithStatus(http.StatusRequestTimeout)
			return
		}
		reqLogger.Error("Weather fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to fetch weather data",
			Code:  "FETCH_ERROR",
		})
		return
	}

	reqLogger.Info("Weather request completed",
		zap.String("location", req.Location),
		zap.String("source", snap.SourceName),
		zap.Bool("simulated", snap.IsSimulated))

	c.JSON(http.StatusOK, toWeatherResponse(snap))
}
