package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smartmess/internal/model"
)

// BookingRepository defines booking persistence operations. Bookings are
// never deleted; lifecycle transitions update the row in place.
type BookingRepository interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interface{}) error) error
	CreateTx(ctx context.Context, tx interface{}, booking *model.Booking) error
	FindByIDForUpdateTx(ctx context.Context, tx interface{}, id uuid.UUID) (*model.Booking, error)
	FindByCredentialForUpdateTx(ctx context.Context, tx interface{}, id uuid.UUID, date, mealSlot string) (*model.Booking, error)
	MarkCancelledTx(ctx context.Context, tx interface{}, id uuid.UUID, at time.Time) error
	MarkCheckedInTx(ctx context.Context, tx interface{}, id uuid.UUID, at time.Time) error
	MarkRatedTx(ctx context.Context, tx interface{}, id uuid.UUID, rating int, at time.Time) error
	ListByUserDate(ctx context.Context, userID uuid.UUID, date string) ([]model.Booking, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.BookingStatus) (int64, error)
	AverageWasteRating(ctx context.Context) (float64, bool, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// WithTransaction executes fn within a database transaction, passing the
// open transaction handle for Tx repository methods.
func (r *bookingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interface{}) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
}

// CreateTx inserts a booking within a transaction. A second live booking
// for the same (user, date, slot) violates the active-booking unique
// index and surfaces as gorm.ErrDuplicatedKey.
func (r *bookingRepository) CreateTx(ctx context.Context, tx interface{}, booking *model.Booking) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Create(booking).Error
}

// FindByIDForUpdateTx finds a booking by ID with a row-level lock, within a transaction.
func (r *bookingRepository) FindByIDForUpdateTx(ctx context.Context, tx interface{}, id uuid.UUID) (*model.Booking, error) {
	txDB := tx.(*gorm.DB)
	var booking model.Booking
	err := txDB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByCredentialForUpdateTx finds a booking by ID requiring the stored
// date and meal slot to match the scanned credential, guarding against a
// credential replayed against an unrelated booking.
func (r *bookingRepository) FindByCredentialForUpdateTx(ctx context.Context, tx interface{}, id uuid.UUID, date, mealSlot string) (*model.Booking, error) {
	txDB := tx.(*gorm.DB)
	var booking model.Booking
	err := txDB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND date = ? AND meal_slot = ?", id, date, mealSlot).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// MarkCancelledTx moves a booking to cancelled within a transaction.
// Active is set to NULL so the slot frees up in the unique index.
func (r *bookingRepository) MarkCancelledTx(ctx context.Context, tx interface{}, id uuid.UUID, at time.Time) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.BookingStatusCancelled,
			"active":       nil,
			"cancelled_at": at,
		}).Error
}

// MarkCheckedInTx moves a booking to checked_in within a transaction.
func (r *bookingRepository) MarkCheckedInTx(ctx context.Context, tx interface{}, id uuid.UUID, at time.Time) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        model.BookingStatusCheckedIn,
			"checked_in_at": at,
		}).Error
}

// MarkRatedTx records a waste rating within a transaction.
func (r *bookingRepository) MarkRatedTx(ctx context.Context, tx interface{}, id uuid.UUID, rating int, at time.Time) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"waste_rating": rating,
			"waste_rated":  true,
			"rated_at":     at,
		}).Error
}

// ListByUserDate lists a user's bookings for one date.
func (r *bookingRepository) ListByUserDate(ctx context.Context, userID uuid.UUID, date string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// Count returns the total number of bookings.
func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Booking{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts bookings in one lifecycle state.
func (r *bookingRepository) CountByStatus(ctx context.Context, status model.BookingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// AverageWasteRating averages the submitted waste ratings. The boolean
// is false when no rating has been submitted yet.
func (r *bookingRepository) AverageWasteRating(ctx context.Context) (float64, bool, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Select("AVG(waste_rating)").
		Where("waste_rated = ?", true).
		Scan(&avg).Error
	if err != nil {
		return 0, false, err
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}
