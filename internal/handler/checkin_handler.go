package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"smartmess/internal/errors"
	"smartmess/internal/service"
)

// CheckinHandler handles QR check-in endpoints.
type CheckinHandler struct {
	checkinService service.CheckinService
}

// NewCheckinHandler creates a new check-in handler.
func NewCheckinHandler(checkinService service.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinService: checkinService}
}

// CheckinRequest represents a scanned credential submission.
type CheckinRequest struct {
	QRData string `json:"qrData" validate:"required"`
}

// CheckIn godoc
// @Summary Check a booking in from a scanned QR credential
// @Tags checkin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckinRequest true "Scanned QR payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /checkin [post]
func (h *CheckinHandler) CheckIn(c echo.Context) error {
	_, role, ok := currentUser(c)
	if !ok {
		return unauthorized()
	}

	var req CheckinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.checkinService.CheckIn(c.Request().Context(), role, req.QRData)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Check-in successful for %s.", booking.MealSlot),
		"booking": booking,
	})
}
