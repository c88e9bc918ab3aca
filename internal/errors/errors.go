package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrMenuNotFound is returned when no weekly menu exists for a week.
	ErrMenuNotFound = errors.New("menu not found")
	// ErrOptionNotFound is returned when a vote references an unknown meal option.
	ErrOptionNotFound = errors.New("meal option not found")
	// ErrBookingNotFound is returned when a booking id does not resolve for the caller.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrInvalidDay is returned when a vote names an unknown day of week.
	ErrInvalidDay = errors.New("invalid day of week")
	// ErrInvalidMealSlot is returned when a meal slot is not one of breakfast/lunch/snacks/dinner.
	ErrInvalidMealSlot = errors.New("invalid meal slot")
	// ErrInvalidDate is returned when a date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
	// ErrAlreadyBooked is returned when a live booking already exists for the slot.
	ErrAlreadyBooked = errors.New("already booked for this meal")
	// ErrCancelCheckedIn is returned when cancelling a booking that was checked in.
	ErrCancelCheckedIn = errors.New("cannot cancel a meal that is checked_in")
	// ErrCancelCancelled is returned when cancelling an already cancelled booking.
	ErrCancelCancelled = errors.New("cannot cancel a meal that is cancelled")
	// ErrAlreadyCheckedIn is returned when scanning a credential twice.
	ErrAlreadyCheckedIn = errors.New("already checked in")
	// ErrBookingCancelled is returned when scanning a credential for a cancelled booking.
	ErrBookingCancelled = errors.New("booking was previously cancelled")
	// ErrInvalidQRPayload is returned when the scanned payload is not a credential.
	ErrInvalidQRPayload = errors.New("invalid QR code format")
	// ErrInvalidQRBooking is returned when a credential matches no booking for its date and slot.
	ErrInvalidQRBooking = errors.New("invalid or expired booking QR code")
	// ErrStaffOnly is returned when a non-staff principal attempts a check-in.
	ErrStaffOnly = errors.New("staff or admin role required for check-in")
	// ErrInvalidWasteRating is returned when a waste rating is outside 1-5.
	ErrInvalidWasteRating = errors.New("waste rating must be between 1 and 5")
	// ErrRatingNotAllowed is returned when a meal is not in a ratable state.
	ErrRatingNotAllowed = errors.New("meal cannot be rated for waste (already rated or not attended)")
	// ErrVoteConflict is returned when a concurrent vote insert loses the uniqueness race.
	ErrVoteConflict = errors.New("vote already recorded for this meal")
	// ErrAdviceUnavailable is returned when the advice upstream fails for a non-rate-limit reason.
	ErrAdviceUnavailable = errors.New("failed to generate advice")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMenuNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MENU_NOT_FOUND")
	case errors.Is(err, ErrOptionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "OPTION_NOT_FOUND")
	case errors.Is(err, ErrBookingNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BOOKING_NOT_FOUND")
	case errors.Is(err, ErrInvalidQRBooking):
		return NewHTTPError(http.StatusNotFound, err.Error(), "INVALID_QR_BOOKING")
	case errors.Is(err, ErrInvalidDay):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DAY")
	case errors.Is(err, ErrInvalidMealSlot):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_MEAL_SLOT")
	case errors.Is(err, ErrInvalidDate):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DATE")
	case errors.Is(err, ErrInvalidWasteRating):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_WASTE_RATING")
	case errors.Is(err, ErrInvalidQRPayload):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_QR_FORMAT")
	case errors.Is(err, ErrAlreadyBooked):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_BOOKED")
	case errors.Is(err, ErrCancelCheckedIn), errors.Is(err, ErrCancelCancelled):
		return NewHTTPError(http.StatusConflict, err.Error(), "CANCEL_NOT_ALLOWED")
	case errors.Is(err, ErrAlreadyCheckedIn):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_CHECKED_IN")
	case errors.Is(err, ErrBookingCancelled):
		return NewHTTPError(http.StatusConflict, err.Error(), "BOOKING_CANCELLED")
	case errors.Is(err, ErrRatingNotAllowed):
		return NewHTTPError(http.StatusConflict, err.Error(), "RATING_NOT_ALLOWED")
	case errors.Is(err, ErrVoteConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "VOTE_CONFLICT")
	case errors.Is(err, ErrStaffOnly):
		return NewHTTPError(http.StatusForbidden, err.Error(), "STAFF_ONLY")
	case errors.Is(err, ErrAdviceUnavailable):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "ADVICE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
