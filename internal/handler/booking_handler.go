package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"smartmess/internal/errors"
	"smartmess/internal/model"
	"smartmess/internal/service"
)

// BookingHandler handles booking lifecycle endpoints.
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest represents a booking request.
type CreateBookingRequest struct {
	Date            string            `json:"date" validate:"required"`
	MealType        string            `json:"mealType" validate:"required"`
	SelectedOptions map[string]string `json:"selectedOptions"`
}

// CancelBookingRequest represents a cancellation request.
type CancelBookingRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid"`
}

// WasteRatingRequest represents a waste rating submission.
type WasteRatingRequest struct {
	BookingID   string `json:"bookingId" validate:"required,uuid"`
	WasteRating int    `json:"wasteRating" validate:"required"`
}

// mealCard is the dashboard shape for one booking. Serving times are
// display-only and fixed.
type mealCard struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Time       string `json:"time"`
	Meal       string `json:"meal"`
	Booked     bool   `json:"booked"`
	Attended   bool   `json:"attended"`
	Status     string `json:"status"`
	WasteRated bool   `json:"wasteRated"`
	QRCode     string `json:"qrCode,omitempty"`
}

var mealTimes = map[string]string{
	model.SlotBreakfast: "7:00 - 10:00 AM",
	model.SlotLunch:     "12:00 - 3:00 PM",
	model.SlotSnacks:    "4:00 - 6:00 PM",
	model.SlotDinner:    "7:00 - 10:00 PM",
}

func cardOf(b model.Booking) mealCard {
	meal := "Menu Item TBD"
	if main, ok := b.SelectedOptions["main"]; ok && main != "" {
		meal = main
	}
	return mealCard{
		ID:         b.ID.String(),
		Type:       b.MealSlot,
		Time:       mealTimes[b.MealSlot],
		Meal:       meal,
		Booked:     b.Status != model.BookingStatusCancelled,
		Attended:   b.Status == model.BookingStatusCheckedIn,
		Status:     string(b.Status),
		WasteRated: b.WasteRated,
		QRCode:     b.QRCode,
	}
}

// CreateBooking godoc
// @Summary Book a meal slot
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return unauthorized()
	}

	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.bookingService.CreateBooking(c.Request().Context(), userID, req.Date, req.MealType, req.SelectedOptions)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"booking": booking})
}

// CancelBooking godoc
// @Summary Cancel an upcoming booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CancelBookingRequest true "Booking id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /bookings/cancel [post]
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return unauthorized()
	}

	var req CancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid bookingId",
			Code:  "INVALID_UUID",
		})
	}

	message, err := h.bookingService.CancelBooking(c.Request().Context(), userID, bookingID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// SubmitWasteRating godoc
// @Summary Rate food waste for an attended meal
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WasteRatingRequest true "Rating data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /meal/waste-rating [post]
func (h *BookingHandler) SubmitWasteRating(c echo.Context) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return unauthorized()
	}

	var req WasteRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid bookingId",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.bookingService.SubmitWasteRating(c.Request().Context(), userID, bookingID, req.WasteRating); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Waste rating recorded successfully. +2 points awarded.",
	})
}

// UserBookings godoc
// @Summary Current user's bookings for a date
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /bookings/user [get]
func (h *BookingHandler) UserBookings(c echo.Context) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return unauthorized()
	}

	date := c.QueryParam("date")
	if date == "" {
		date = model.DateString(time.Now())
	}

	bookings, err := h.bookingService.UserBookings(c.Request().Context(), userID, date)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	cards := make([]mealCard, 0, len(bookings))
	for _, b := range bookings {
		cards = append(cards, cardOf(b))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"bookings": cards})
}
