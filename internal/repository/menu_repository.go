package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartmess/internal/model"
)

// MenuRepository defines weekly menu persistence operations.
type MenuRepository interface {
	Create(ctx context.Context, menu *model.WeeklyMenu) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WeeklyMenu, error)
	FindByWeekStart(ctx context.Context, weekStart string) (*model.WeeklyMenu, error)
	FindOption(ctx context.Context, weekStart, mealSlot, category, optionID string) (*model.MealOption, error)
	OptionsByMenu(ctx context.Context, menuID uuid.UUID) ([]model.MealOption, error)
	SetOptionVotes(ctx context.Context, menuID uuid.UUID, optionID string, votes int64) error
	AdjustOptionVotesTx(ctx context.Context, tx interface{}, menuID uuid.UUID, optionID string, delta int) error
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository.
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

// Create creates a menu together with its options.
func (r *menuRepository) Create(ctx context.Context, menu *model.WeeklyMenu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

// FindByID finds a menu by its primary key, without options.
func (r *menuRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WeeklyMenu, error) {
	var menu model.WeeklyMenu
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

// FindByWeekStart finds a menu by its week-start date, options included
// in seed order.
func (r *menuRepository) FindByWeekStart(ctx context.Context, weekStart string) (*model.WeeklyMenu, error) {
	var menu model.WeeklyMenu
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("week_start = ?", weekStart).
		First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// FindOption resolves an option id under a (week, slot, category).
func (r *menuRepository) FindOption(ctx context.Context, weekStart, mealSlot, category, optionID string) (*model.MealOption, error) {
	var option model.MealOption
	err := r.db.WithContext(ctx).
		Joins("JOIN weekly_menus ON weekly_menus.id = meal_options.menu_id").
		Where("weekly_menus.week_start = ? AND meal_options.meal_slot = ? AND meal_options.category = ? AND meal_options.id = ?",
			weekStart, mealSlot, category, optionID).
		First(&option).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

// OptionsByMenu lists every option of a menu.
func (r *menuRepository) OptionsByMenu(ctx context.Context, menuID uuid.UUID) ([]model.MealOption, error) {
	var options []model.MealOption
	err := r.db.WithContext(ctx).
		Where("menu_id = ?", menuID).
		Order("position ASC").
		Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

// SetOptionVotes overwrites a counter with an absolute value. Used by
// the vote reconciliation routine only; normal voting goes through
// AdjustOptionVotesTx.
func (r *menuRepository) SetOptionVotes(ctx context.Context, menuID uuid.UUID, optionID string, votes int64) error {
	return r.db.WithContext(ctx).Model(&model.MealOption{}).
		Where("menu_id = ? AND id = ?", menuID, optionID).
		UpdateColumn("votes", votes).Error
}

// AdjustOptionVotesTx applies a relative counter delta inside a transaction.
func (r *menuRepository) AdjustOptionVotesTx(ctx context.Context, tx interface{}, menuID uuid.UUID, optionID string, delta int) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Model(&model.MealOption{}).
		Where("menu_id = ? AND id = ?", menuID, optionID).
		UpdateColumn("votes", gorm.Expr("GREATEST(votes + ?, 0)", delta)).Error
}
