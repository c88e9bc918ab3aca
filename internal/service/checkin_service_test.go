package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "smartmess/internal/errors"
	"smartmess/internal/model"
)

func credentialJSON(bookingID, userID uuid.UUID, date, mealType string) string {
	return fmt.Sprintf(`{"bookingId":"%s","userId":"%s","date":"%s","mealType":"%s"}`,
		bookingID, userID, date, mealType)
}

func TestCheckinService_CheckIn(t *testing.T) {
	ownerID := uuid.New()
	bookingID := uuid.New()
	qrData := credentialJSON(bookingID, ownerID, "2024-06-03", "lunch")

	upcoming := func() *model.Booking {
		return &model.Booking{
			ID:       bookingID,
			UserID:   ownerID,
			Date:     "2024-06-03",
			MealSlot: "lunch",
			Status:   model.BookingStatusUpcoming,
		}
	}

	t.Run("staff check-in awards owner points and streak", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		mockUserRepo := new(MockUserRepository)

		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("FindByCredentialForUpdateTx", mock.Anything, nil, bookingID, "2024-06-03", "lunch").Return(upcoming(), nil)
		mockBookingRepo.On("MarkCheckedInTx", mock.Anything, nil, bookingID, mock.AnythingOfType("time.Time")).Return(nil)
		mockUserRepo.On("AdjustPointsTx", mock.Anything, nil, ownerID, 15).Return(nil)
		mockUserRepo.On("IncrementStreakTx", mock.Anything, nil, ownerID).Return(nil)

		service := NewCheckinService(mockBookingRepo, mockUserRepo)
		booking, err := service.CheckIn(context.Background(), model.RoleStaff, qrData)

		assert.NoError(t, err)
		assert.Equal(t, model.BookingStatusCheckedIn, booking.Status)
		assert.NotNil(t, booking.CheckedInAt)
		mockBookingRepo.AssertExpectations(t)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("admin may also check in", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		mockUserRepo := new(MockUserRepository)

		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("FindByCredentialForUpdateTx", mock.Anything, nil, bookingID, "2024-06-03", "lunch").Return(upcoming(), nil)
		mockBookingRepo.On("MarkCheckedInTx", mock.Anything, nil, bookingID, mock.AnythingOfType("time.Time")).Return(nil)
		mockUserRepo.On("AdjustPointsTx", mock.Anything, nil, ownerID, 15).Return(nil)
		mockUserRepo.On("IncrementStreakTx", mock.Anything, nil, ownerID).Return(nil)

		service := NewCheckinService(mockBookingRepo, mockUserRepo)
		_, err := service.CheckIn(context.Background(), model.RoleAdmin, qrData)

		assert.NoError(t, err)
	})

	t.Run("students cannot check in", func(t *testing.T) {
		service := NewCheckinService(new(MockBookingRepository), new(MockUserRepository))
		_, err := service.CheckIn(context.Background(), model.RoleStudent, qrData)
		assert.Equal(t, apperrors.ErrStaffOnly, err)
	})

	t.Run("malformed payloads", func(t *testing.T) {
		service := NewCheckinService(new(MockBookingRepository), new(MockUserRepository))

		_, err := service.CheckIn(context.Background(), model.RoleStaff, "not json")
		assert.Equal(t, apperrors.ErrInvalidQRPayload, err)

		_, err = service.CheckIn(context.Background(), model.RoleStaff, `{"userId":"x"}`)
		assert.Equal(t, apperrors.ErrInvalidQRPayload, err)

		_, err = service.CheckIn(context.Background(), model.RoleStaff, `{"bookingId":"not-a-uuid","userId":"x","date":"2024-06-03","mealType":"lunch"}`)
		assert.Equal(t, apperrors.ErrInvalidQRPayload, err)
	})

	t.Run("credential must match stored date and slot", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		replayed := credentialJSON(bookingID, ownerID, "2024-06-04", "dinner")
		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("FindByCredentialForUpdateTx", mock.Anything, nil, bookingID, "2024-06-04", "dinner").Return(nil, gorm.ErrRecordNotFound)

		service := NewCheckinService(mockBookingRepo, new(MockUserRepository))
		_, err := service.CheckIn(context.Background(), model.RoleStaff, replayed)

		assert.Equal(t, apperrors.ErrInvalidQRBooking, err)
	})

	t.Run("double check-in", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		mockUserRepo := new(MockUserRepository)
		b := upcoming()
		b.Status = model.BookingStatusCheckedIn
		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("FindByCredentialForUpdateTx", mock.Anything, nil, bookingID, "2024-06-03", "lunch").Return(b, nil)

		service := NewCheckinService(mockBookingRepo, mockUserRepo)
		_, err := service.CheckIn(context.Background(), model.RoleStaff, qrData)

		assert.Equal(t, apperrors.ErrAlreadyCheckedIn, err)
		mockUserRepo.AssertNotCalled(t, "AdjustPointsTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelled booking", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		b := upcoming()
		b.Status = model.BookingStatusCancelled
		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("FindByCredentialForUpdateTx", mock.Anything, nil, bookingID, "2024-06-03", "lunch").Return(b, nil)

		service := NewCheckinService(mockBookingRepo, new(MockUserRepository))
		_, err := service.CheckIn(context.Background(), model.RoleStaff, qrData)

		assert.Equal(t, apperrors.ErrBookingCancelled, err)
	})
}
