package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartmess/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Count(ctx context.Context) (int64, error)
	// Tx variants run against an open transaction handle (a *gorm.DB
	// obtained from another repository's WithTransaction).
	AdjustPointsTx(ctx context.Context, tx interface{}, id uuid.UUID, delta int) error
	IncrementStreakTx(ctx context.Context, tx interface{}, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Count returns the total number of users.
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AdjustPointsTx applies a relative point delta inside a transaction.
// The delta is applied in SQL so concurrent awards compose; points are
// floored at zero, and the level is derived from the updated points in
// the same statement (MySQL applies SET clauses left to right, so the
// level expression sees the new points value).
func (r *userRepository) AdjustPointsTx(ctx context.Context, tx interface{}, id uuid.UUID, delta int) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Exec(
		"UPDATE users SET points = GREATEST(points + ?, 0), level = FLOOR(points / 100) + 1 WHERE id = ?",
		delta, id,
	).Error
}

// IncrementStreakTx bumps the consecutive-attendance counter inside a transaction.
func (r *userRepository) IncrementStreakTx(ctx context.Context, tx interface{}, id uuid.UUID) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("streak", gorm.Expr("streak + 1")).Error
}
