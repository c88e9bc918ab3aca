package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"smartmess/internal/errors"
	"smartmess/internal/service"
)

// AnalyticsHandler handles admin analytics endpoints.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Overview godoc
// @Summary Mess-wide usage and waste analytics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/analytics [get]
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	if _, _, ok := currentUser(c); !ok {
		return unauthorized()
	}

	overview, err := h.analyticsService.Overview(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"analytics": overview})
}
