package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "smartmess/internal/errors"
	"smartmess/internal/model"
	"smartmess/internal/qr"
	"smartmess/internal/repository"
)

// BookingService handles the meal booking lifecycle.
type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, date, mealSlot string, selected model.OptionSelection) (*model.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (message string, err error)
	SubmitWasteRating(ctx context.Context, userID, bookingID uuid.UUID, rating int) error
	UserBookings(ctx context.Context, userID uuid.UUID, date string) ([]model.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
}

// NewBookingService creates a new booking service.
func NewBookingService(bookingRepo repository.BookingRepository, userRepo repository.UserRepository) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
	}
}

// CreateBooking reserves a meal slot for the user. The booking row and
// the point award commit in one transaction; a second live booking for
// the same (user, date, slot) trips the active-booking unique index and
// is rejected as a conflict, which also settles concurrent attempts.
func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, date, mealSlot string, selected model.OptionSelection) (*model.Booking, error) {
	slot := strings.ToLower(mealSlot)
	if !model.ValidMealSlot(slot) {
		return nil, apperrors.ErrInvalidMealSlot
	}
	if !model.ValidDate(date) {
		return nil, apperrors.ErrInvalidDate
	}

	bookingID := uuid.New()
	cred := qr.Credential{
		BookingID: bookingID.String(),
		UserID:    userID.String(),
		Date:      date,
		MealType:  slot,
	}
	qrData, qrCode, err := cred.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode credential: %w", err)
	}

	active := true
	booking := &model.Booking{
		ID:              bookingID,
		UserID:          userID,
		Date:            date,
		MealSlot:        slot,
		Active:          &active,
		SelectedOptions: selected,
		QRData:          qrData,
		QRCode:          qrCode,
		Status:          model.BookingStatusUpcoming,
		WasteRated:      false,
	}

	err = s.bookingRepo.WithTransaction(ctx, func(ctx context.Context, tx interface{}) error {
		if err := s.bookingRepo.CreateTx(ctx, tx, booking); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrAlreadyBooked
			}
			return fmt.Errorf("create booking: %w", err)
		}
		if err := s.userRepo.AdjustPointsTx(ctx, tx, userID, pointsBooking); err != nil {
			return fmt.Errorf("award booking points: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking moves an upcoming booking to cancelled and deducts the
// cancellation penalty, all in one transaction. Checked-in and already
// cancelled bookings are terminal for this transition.
func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (string, error) {
	err := s.bookingRepo.WithTransaction(ctx, func(ctx context.Context, tx interface{}) error {
		booking, err := s.bookingRepo.FindByIDForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBookingNotFound
			}
			return fmt.Errorf("find booking: %w", err)
		}
		// A foreign booking id reads as not found, existence is not leaked.
		if booking.UserID != userID {
			return apperrors.ErrBookingNotFound
		}

		switch booking.Status {
		case model.BookingStatusCheckedIn:
			return apperrors.ErrCancelCheckedIn
		case model.BookingStatusCancelled:
			return apperrors.ErrCancelCancelled
		}

		if err := s.bookingRepo.MarkCancelledTx(ctx, tx, bookingID, time.Now()); err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		if err := s.userRepo.AdjustPointsTx(ctx, tx, userID, pointsCancel); err != nil {
			return fmt.Errorf("deduct cancellation points: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return "Booking cancelled. 5 points deducted.", nil
}

// SubmitWasteRating records a 1-5 waste rating on an attended meal and
// awards the rating bonus once. An out-of-range rating is rejected
// regardless of booking state.
func (s *bookingService) SubmitWasteRating(ctx context.Context, userID, bookingID uuid.UUID, rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.ErrInvalidWasteRating
	}

	return s.bookingRepo.WithTransaction(ctx, func(ctx context.Context, tx interface{}) error {
		booking, err := s.bookingRepo.FindByIDForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBookingNotFound
			}
			return fmt.Errorf("find booking: %w", err)
		}
		if booking.UserID != userID {
			return apperrors.ErrBookingNotFound
		}
		if booking.Status != model.BookingStatusCheckedIn || booking.WasteRated {
			return apperrors.ErrRatingNotAllowed
		}

		if err := s.bookingRepo.MarkRatedTx(ctx, tx, bookingID, rating, time.Now()); err != nil {
			return fmt.Errorf("record waste rating: %w", err)
		}
		if err := s.userRepo.AdjustPointsTx(ctx, tx, userID, pointsWasteRating); err != nil {
			return fmt.Errorf("award rating points: %w", err)
		}
		return nil
	})
}

// UserBookings lists a user's bookings for one date.
func (s *bookingService) UserBookings(ctx context.Context, userID uuid.UUID, date string) ([]model.Booking, error) {
	if !model.ValidDate(date) {
		return nil, apperrors.ErrInvalidDate
	}
	return s.bookingRepo.ListByUserDate(ctx, userID, date)
}
