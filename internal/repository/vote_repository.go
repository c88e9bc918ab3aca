package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smartmess/internal/model"
)

// VoteKey is the uniqueness tuple of a vote: one current choice per
// user, week, day, slot and category.
type VoteKey struct {
	UserID    uuid.UUID
	WeekStart string
	Day       string
	MealSlot  string
	Category  string
}

// OptionCount pairs an option with its vote tally.
type OptionCount struct {
	OptionID string `json:"optionId"`
	Votes    int64  `json:"votes"`
}

// VoteRepository defines vote persistence operations.
type VoteRepository interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interface{}) error) error
	FindByKeyForUpdateTx(ctx context.Context, tx interface{}, key VoteKey) (*model.Vote, error)
	CreateTx(ctx context.Context, tx interface{}, vote *model.Vote) error
	UpdateOptionTx(ctx context.Context, tx interface{}, id uuid.UUID, optionID string) error
	ListByUserWeek(ctx context.Context, userID uuid.UUID, weekStart string) ([]model.Vote, error)
	CountByOption(ctx context.Context, weekStart string, limit int) ([]OptionCount, error)
	CountMatching(ctx context.Context, weekStart, mealSlot, category, optionID string) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// WithTransaction executes fn within a database transaction, passing the
// open transaction handle for Tx repository methods.
func (r *voteRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interface{}) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
}

// FindByKeyForUpdateTx finds the vote for a uniqueness tuple with a
// row-level lock, within a transaction.
func (r *voteRepository) FindByKeyForUpdateTx(ctx context.Context, tx interface{}, key VoteKey) (*model.Vote, error) {
	txDB := tx.(*gorm.DB)
	var vote model.Vote
	err := txDB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND week_start = ? AND day = ? AND meal_slot = ? AND category = ?",
			key.UserID, key.WeekStart, key.Day, key.MealSlot, key.Category).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// CreateTx inserts a vote within a transaction. The unique index on the
// vote key turns a concurrent duplicate into gorm.ErrDuplicatedKey.
func (r *voteRepository) CreateTx(ctx context.Context, tx interface{}, vote *model.Vote) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Create(vote).Error
}

// UpdateOptionTx swaps the chosen option of an existing vote within a transaction.
func (r *voteRepository) UpdateOptionTx(ctx context.Context, tx interface{}, id uuid.UUID, optionID string) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Model(&model.Vote{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"option_id": optionID, "updated_at": time.Now()}).Error
}

// ListByUserWeek lists a user's votes for a week.
func (r *voteRepository) ListByUserWeek(ctx context.Context, userID uuid.UUID, weekStart string) ([]model.Vote, error) {
	var votes []model.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, weekStart).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// CountByOption tallies votes per option for a week, most popular first.
// This groups over the vote rows themselves, not the denormalized counters.
func (r *voteRepository) CountByOption(ctx context.Context, weekStart string, limit int) ([]OptionCount, error) {
	var counts []OptionCount
	err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Select("option_id AS option_id, COUNT(*) AS votes").
		Where("week_start = ?", weekStart).
		Group("option_id").
		Order("votes DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountMatching counts the vote rows referencing one option under a
// (week, slot, category). Used to reconcile the denormalized counters.
func (r *voteRepository) CountMatching(ctx context.Context, weekStart, mealSlot, category, optionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Where("week_start = ? AND meal_slot = ? AND category = ? AND option_id = ?",
			weekStart, mealSlot, category, optionID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
