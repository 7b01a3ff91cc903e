package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agromitra/agromitra/internal/server/utils"
	"github.com/agromitra/agromitra/internal/weather"
)

type GeocodeHandler struct {
	resolver *weather.Resolver
	logger   *zap.Logger
}

// coordinateBounds exists so gin's binding errors and range errors
// produce distinct messages at the handler boundary.
type coordinateBounds struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

func NewGeocodeHandler(resolver *weather.Resolver, logger *zap.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// ReverseGeocode serves GET /geocode?lat=&lon=. Unlike the weather
// path this endpoint has no fallback: fabricating an address could
// mislead the user about where advice applies, so a miss is a 404 and
// a missing credential is a 500 with a generic message.
func (h *GeocodeHandler) ReverseGeocode(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)

	reqLogger := h.logger.With(zap.String("request_id", requestID))

	var req GeocodeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid geocode request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return
	}

	if verrs := utils.ValidateStruct(coordinateBounds{Lat: *req.Lat, Lon: *req.Lon}); len(verrs) > 0 {
		reqLogger.Warn("Geocode coordinates out of range",
			zap.Float64("lat", *req.Lat),
			zap.Float64("lon", *req.Lon))
		c.JSON(http.StatusBadRequest, gin.H{"error": verrs[0].Message})
		return
	}

	loc, err := h.resolver.ResolveByCoordinates(ctx, *req.Lat, *req.Lon)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, GeocodeResponse{Address: displayAddress(loc)})
	case weather.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, weather.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no address found for these coordinates"})
	case errors.Is(err, weather.ErrNotConfigured):
		reqLogger.Error("Geocoding requested without a configured source")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "geocoding is not available"})
	default:
		reqLogger.Error("Reverse geocoding failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "geocoding failed"})
	}
}

func displayAddress(loc weather.ResolvedLocation) string {
	if loc.Country == "" {
		return loc.DisplayName
	}
	return loc.DisplayName + ", " + loc.Country
}
