package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridgeline/backend/internal/application/scheduling"
)

// WeatherHandler exposes the forecast and rain-shift endpoints
type WeatherHandler struct {
	weatherShiftService scheduling.WeatherShiftService
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(weatherShiftService scheduling.WeatherShiftService) *WeatherHandler {
	return &WeatherHandler{weatherShiftService: weatherShiftService}
}

// Forecast returns the daily forecast for the tenant's ZIP code
// GET /api/v1/weather
func (h *WeatherHandler) Forecast(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	result, err := h.weatherShiftService.Forecast(c.Request.Context(), tid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}

// ShiftJobs runs the automatic rain shift over upcoming jobs
// POST /api/v1/weather/shift-jobs
func (h *WeatherHandler) ShiftJobs(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	result, err := h.weatherShiftService.AutoShift(c.Request.Context(), tid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}

// ShiftStatus reports whether a pending shift awaits confirm or undo
// GET /api/v1/weather/shift-status
func (h *WeatherHandler) ShiftStatus(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	result, err := h.weatherShiftService.Status(c.Request.Context(), tid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}

// ConfirmShift accepts the pending shift, making it permanent
// POST /api/v1/weather/shift-confirm
func (h *WeatherHandler) ConfirmShift(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	if err := h.weatherShiftService.Confirm(c.Request.Context(), tid); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"confirmed": true})
}

// UndoShift reverts the pending shift, moving jobs back
// POST /api/v1/weather/shift-undo
func (h *WeatherHandler) UndoShift(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}

	result, err := h.weatherShiftService.Undo(c.Request.Context(), tid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}
