package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "smartmess/internal/errors"
	"smartmess/internal/model"
	"smartmess/internal/qr"
	"smartmess/internal/repository"
)

// CheckinService consumes scanned booking credentials at the counter.
type CheckinService interface {
	CheckIn(ctx context.Context, staffRole, qrData string) (*model.Booking, error)
}

type checkinService struct {
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
}

// NewCheckinService creates a new check-in service.
func NewCheckinService(bookingRepo repository.BookingRepository, userRepo repository.UserRepository) CheckinService {
	return &checkinService{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
	}
}

// CheckIn validates a scanned credential and marks the booking attended.
// The credential must match the stored booking's date and meal slot, not
// just its id, so a payload cannot be replayed against another slot. The
// attendance bonus and streak bump go to the booking's owner, not the
// staff member scanning, and commit with the status change in one
// transaction.
func (s *checkinService) CheckIn(ctx context.Context, staffRole, qrData string) (*model.Booking, error) {
	if !model.CanCheckIn(staffRole) {
		return nil, apperrors.ErrStaffOnly
	}

	cred, err := qr.ParseCredential(qrData)
	if err != nil {
		return nil, err
	}
	bookingID, err := uuid.Parse(cred.BookingID)
	if err != nil {
		return nil, apperrors.ErrInvalidQRPayload
	}

	var booking *model.Booking
	err = s.bookingRepo.WithTransaction(ctx, func(ctx context.Context, tx interface{}) error {
		booking, err = s.bookingRepo.FindByCredentialForUpdateTx(ctx, tx, bookingID, cred.Date, cred.MealType)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInvalidQRBooking
			}
			return fmt.Errorf("find booking: %w", err)
		}

		switch booking.Status {
		case model.BookingStatusCheckedIn:
			return apperrors.ErrAlreadyCheckedIn
		case model.BookingStatusCancelled:
			return apperrors.ErrBookingCancelled
		}

		now := time.Now()
		if err := s.bookingRepo.MarkCheckedInTx(ctx, tx, booking.ID, now); err != nil {
			return fmt.Errorf("mark checked in: %w", err)
		}
		if err := s.userRepo.AdjustPointsTx(ctx, tx, booking.UserID, pointsCheckIn); err != nil {
			return fmt.Errorf("award check-in points: %w", err)
		}
		if err := s.userRepo.IncrementStreakTx(ctx, tx, booking.UserID); err != nil {
			return fmt.Errorf("increment streak: %w", err)
		}

		booking.Status = model.BookingStatusCheckedIn
		booking.CheckedInAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}
