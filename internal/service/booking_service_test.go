package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "smartmess/internal/errors"
	"smartmess/internal/model"
)

func TestBookingService_CreateBooking(t *testing.T) {
	userID := uuid.New()

	t.Run("creates booking with credential and awards points", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		mockUserRepo := new(MockUserRepository)

		var created *model.Booking
		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("CreateTx", mock.Anything, nil, mock.AnythingOfType("*model.Booking")).
			Run(func(args mock.Arguments) {
				created = args.Get(2).(*model.Booking)
			}).Return(nil)
		mockUserRepo.On("AdjustPointsTx", mock.Anything, nil, userID, 10).Return(nil)

		service := NewBookingService(mockBookingRepo, mockUserRepo)
		booking, err := service.CreateBooking(context.Background(), userID, "2024-06-03", "Lunch", model.OptionSelection{"main": "Dal Rice"})

		assert.NoError(t, err)
		assert.Equal(t, model.BookingStatusUpcoming, booking.Status)
		assert.Equal(t, "lunch", booking.MealSlot)
		assert.NotNil(t, booking.Active)
		assert.True(t, *booking.Active)
		assert.True(t, strings.HasPrefix(booking.QRCode, "data:image/png;base64,"))

		var payload map[string]string
		assert.NoError(t, json.Unmarshal([]byte(created.QRData), &payload))
		assert.Equal(t, booking.ID.String(), payload["bookingId"])
		assert.Equal(t, userID.String(), payload["userId"])
		assert.Equal(t, "2024-06-03", payload["date"])
		assert.Equal(t, "lunch", payload["mealType"])

		mockBookingRepo.AssertExpectations(t)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("duplicate live booking is a conflict", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		mockUserRepo := new(MockUserRepository)

		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("CreateTx", mock.Anything, nil, mock.AnythingOfType("*model.Booking")).Return(gorm.ErrDuplicatedKey)

		service := NewBookingService(mockBookingRepo, mockUserRepo)
		booking, err := service.CreateBooking(context.Background(), userID, "2024-06-03", "lunch", nil)

		assert.Nil(t, booking)
		assert.Equal(t, apperrors.ErrAlreadyBooked, err)
		mockUserRepo.AssertNotCalled(t, "AdjustPointsTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation failures", func(t *testing.T) {
		service := NewBookingService(new(MockBookingRepository), new(MockUserRepository))

		_, err := service.CreateBooking(context.Background(), userID, "2024-06-03", "brunch", nil)
		assert.Equal(t, apperrors.ErrInvalidMealSlot, err)

		_, err = service.CreateBooking(context.Background(), userID, "03/06/2024", "lunch", nil)
		assert.Equal(t, apperrors.ErrInvalidDate, err)
	})
}

func TestBookingService_CancelBooking(t *testing.T) {
	userID := uuid.New()
	bookingID := uuid.New()

	upcoming := func() *model.Booking {
		return &model.Booking{ID: bookingID, UserID: userID, Status: model.BookingStatusUpcoming}
	}

	t.Run("cancels upcoming booking and deducts points", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		mockUserRepo := new(MockUserRepository)

		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("FindByIDForUpdateTx", mock.Anything, nil, bookingID).Return(upcoming(), nil)
		mockBookingRepo.On("MarkCancelledTx", mock.Anything, nil, bookingID, mock.AnythingOfType("time.Time")).Return(nil)
		mockUserRepo.On("AdjustPointsTx", mock.Anything, nil, userID, -5).Return(nil)

		service := NewBookingService(mockBookingRepo, mockUserRepo)
		message, err := service.CancelBooking(context.Background(), userID, bookingID)

		assert.NoError(t, err)
		assert.Equal(t, "Booking cancelled. 5 points deducted.", message)
		mockBookingRepo.AssertExpectations(t)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("unknown booking", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("FindByIDForUpdateTx", mock.Anything, nil, bookingID).Return(nil, gorm.ErrRecordNotFound)

		service := NewBookingService(mockBookingRepo, new(MockUserRepository))
		_, err := service.CancelBooking(context.Background(), userID, bookingID)

		assert.Equal(t, apperrors.ErrBookingNotFound, err)
	})

	t.Run("someone else's booking reads as not found", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		other := upcoming()
		other.UserID = uuid.New()
		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("FindByIDForUpdateTx", mock.Anything, nil, bookingID).Return(other, nil)

		service := NewBookingService(mockBookingRepo, new(MockUserRepository))
		_, err := service.CancelBooking(context.Background(), userID, bookingID)

		assert.Equal(t, apperrors.ErrBookingNotFound, err)
	})

	t.Run("terminal states cannot be cancelled", func(t *testing.T) {
		for status, wantErr := range map[model.BookingStatus]error{
			model.BookingStatusCheckedIn: apperrors.ErrCancelCheckedIn,
			model.BookingStatusCancelled: apperrors.ErrCancelCancelled,
		} {
			mockBookingRepo := new(MockBookingRepository)
			mockUserRepo := new(MockUserRepository)
			b := upcoming()
			b.Status = status
			mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
			mockBookingRepo.On("FindByIDForUpdateTx", mock.Anything, nil, bookingID).Return(b, nil)

			service := NewBookingService(mockBookingRepo, mockUserRepo)
			_, err := service.CancelBooking(context.Background(), userID, bookingID)

			assert.Equal(t, wantErr, err)
			mockUserRepo.AssertNotCalled(t, "AdjustPointsTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	})
}

func TestBookingService_SubmitWasteRating(t *testing.T) {
	userID := uuid.New()
	bookingID := uuid.New()

	checkedIn := func() *model.Booking {
		return &model.Booking{ID: bookingID, UserID: userID, Status: model.BookingStatusCheckedIn}
	}

	t.Run("rates attended meal and awards points", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		mockUserRepo := new(MockUserRepository)

		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("FindByIDForUpdateTx", mock.Anything, nil, bookingID).Return(checkedIn(), nil)
		mockBookingRepo.On("MarkRatedTx", mock.Anything, nil, bookingID, 3, mock.AnythingOfType("time.Time")).Return(nil)
		mockUserRepo.On("AdjustPointsTx", mock.Anything, nil, userID, 2).Return(nil)

		service := NewBookingService(mockBookingRepo, mockUserRepo)
		err := service.SubmitWasteRating(context.Background(), userID, bookingID, 3)

		assert.NoError(t, err)
		mockBookingRepo.AssertExpectations(t)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("rejects out of range ratings without touching storage", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		service := NewBookingService(mockBookingRepo, new(MockUserRepository))

		assert.Equal(t, apperrors.ErrInvalidWasteRating, service.SubmitWasteRating(context.Background(), userID, bookingID, 0))
		assert.Equal(t, apperrors.ErrInvalidWasteRating, service.SubmitWasteRating(context.Background(), userID, bookingID, 6))
		mockBookingRepo.AssertNotCalled(t, "WithTransaction", mock.Anything)
	})

	t.Run("rating gated on attended unrated state", func(t *testing.T) {
		cases := []struct {
			name    string
			booking *model.Booking
		}{
			{"upcoming booking", &model.Booking{ID: bookingID, UserID: userID, Status: model.BookingStatusUpcoming}},
			{"cancelled booking", &model.Booking{ID: bookingID, UserID: userID, Status: model.BookingStatusCancelled}},
			{"already rated", &model.Booking{ID: bookingID, UserID: userID, Status: model.BookingStatusCheckedIn, WasteRated: true}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mockBookingRepo := new(MockBookingRepository)
				mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
				mockBookingRepo.On("FindByIDForUpdateTx", mock.Anything, nil, bookingID).Return(tc.booking, nil)

				service := NewBookingService(mockBookingRepo, new(MockUserRepository))
				err := service.SubmitWasteRating(context.Background(), userID, bookingID, 3)

				assert.Equal(t, apperrors.ErrRatingNotAllowed, err)
			})
		}
	})
}

// pointsRecorder accumulates every point delta a flow applies so tests
// can check the net effect of multi-step scenarios.
type pointsRecorder struct {
	total int
}

func (r *pointsRecorder) attach(m *MockUserRepository, userID uuid.UUID) {
	m.On("AdjustPointsTx", mock.Anything, nil, userID, mock.AnythingOfType("int")).
		Run(func(args mock.Arguments) {
			r.total += args.Get(3).(int)
		}).Return(nil)
}

func TestBookingLifecycle_PointsConservation(t *testing.T) {
	userID := uuid.New()

	t.Run("book, check in and rate nets 27 points", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		mockUserRepo := new(MockUserRepository)
		rec := &pointsRecorder{}
		rec.attach(mockUserRepo, userID)
		mockUserRepo.On("IncrementStreakTx", mock.Anything, nil, userID).Return(nil)

		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("CreateTx", mock.Anything, nil, mock.AnythingOfType("*model.Booking")).Return(nil)

		bookingSvc := NewBookingService(mockBookingRepo, mockUserRepo)
		checkinSvc := NewCheckinService(mockBookingRepo, mockUserRepo)

		booking, err := bookingSvc.CreateBooking(context.Background(), userID, "2024-06-03", "lunch", nil)
		assert.NoError(t, err)

		stored := *booking
		mockBookingRepo.On("FindByCredentialForUpdateTx", mock.Anything, nil, booking.ID, "2024-06-03", "lunch").Return(&stored, nil)
		mockBookingRepo.On("MarkCheckedInTx", mock.Anything, nil, booking.ID, mock.AnythingOfType("time.Time")).Return(nil)

		checked, err := checkinSvc.CheckIn(context.Background(), model.RoleStaff, booking.QRData)
		assert.NoError(t, err)
		assert.Equal(t, model.BookingStatusCheckedIn, checked.Status)

		rated := *checked
		mockBookingRepo.On("FindByIDForUpdateTx", mock.Anything, nil, booking.ID).Return(&rated, nil)
		mockBookingRepo.On("MarkRatedTx", mock.Anything, nil, booking.ID, 4, mock.AnythingOfType("time.Time")).Return(nil)

		assert.NoError(t, bookingSvc.SubmitWasteRating(context.Background(), userID, booking.ID, 4))

		assert.Equal(t, 27, rec.total)
	})

	t.Run("book then cancel nets 5 points", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		mockUserRepo := new(MockUserRepository)
		rec := &pointsRecorder{}
		rec.attach(mockUserRepo, userID)

		mockBookingRepo.On("WithTransaction", mock.Anything).Return(nil)
		mockBookingRepo.On("CreateTx", mock.Anything, nil, mock.AnythingOfType("*model.Booking")).Return(nil)

		service := NewBookingService(mockBookingRepo, mockUserRepo)
		booking, err := service.CreateBooking(context.Background(), userID, "2024-06-03", "dinner", nil)
		assert.NoError(t, err)

		stored := *booking
		mockBookingRepo.On("FindByIDForUpdateTx", mock.Anything, nil, booking.ID).Return(&stored, nil)
		mockBookingRepo.On("MarkCancelledTx", mock.Anything, nil, booking.ID, mock.AnythingOfType("time.Time")).Return(nil)

		_, err = service.CancelBooking(context.Background(), userID, booking.ID)
		assert.NoError(t, err)

		assert.Equal(t, 5, rec.total)
	})
}

func TestBookingService_UserBookings(t *testing.T) {
	userID := uuid.New()

	t.Run("lists bookings for a date", func(t *testing.T) {
		mockBookingRepo := new(MockBookingRepository)
		now := time.Now()
		mockBookingRepo.On("ListByUserDate", mock.Anything, userID, "2024-06-03").Return([]model.Booking{
			{ID: uuid.New(), UserID: userID, Date: "2024-06-03", MealSlot: "lunch", Status: model.BookingStatusUpcoming, CreatedAt: now},
		}, nil)

		service := NewBookingService(mockBookingRepo, new(MockUserRepository))
		bookings, err := service.UserBookings(context.Background(), userID, "2024-06-03")

		assert.NoError(t, err)
		assert.Len(t, bookings, 1)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		service := NewBookingService(new(MockBookingRepository), new(MockUserRepository))
		_, err := service.UserBookings(context.Background(), userID, "yesterday")
		assert.Equal(t, apperrors.ErrInvalidDate, err)
	})
}
