package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "smartmess/internal/errors"
	"smartmess/internal/model"
	"smartmess/internal/repository"
)

// CastVoteInput identifies the meal a user is voting on and the option
// they chose.
type CastVoteInput struct {
	WeekStart string
	Day       string
	MealSlot  string
	Category  string
	OptionID  string
}

// MenuService handles weekly menus and the voting ledger.
type MenuService interface {
	GetWeeklyMenu(ctx context.Context, weekStart string) (*model.WeeklyMenu, error)
	CastVote(ctx context.Context, userID uuid.UUID, in CastVoteInput) (created bool, err error)
	UserVotes(ctx context.Context, userID uuid.UUID, weekStart string) (map[string]string, error)
	PopularOptions(ctx context.Context, weekStart string, limit int) ([]repository.OptionCount, error)
	RecountVotes(ctx context.Context, menuID uuid.UUID) error
}

type menuService struct {
	menuRepo repository.MenuRepository
	voteRepo repository.VoteRepository
	userRepo repository.UserRepository
}

// NewMenuService creates a new menu service.
func NewMenuService(menuRepo repository.MenuRepository, voteRepo repository.VoteRepository, userRepo repository.UserRepository) MenuService {
	return &menuService{
		menuRepo: menuRepo,
		voteRepo: voteRepo,
		userRepo: userRepo,
	}
}

// GetWeeklyMenu returns the menu for a week, creating it with the
// default option set on first read. A concurrent first read resolves
// through the unique week-start index: the loser re-reads the winner's
// menu instead of duplicating it.
func (s *menuService) GetWeeklyMenu(ctx context.Context, weekStart string) (*model.WeeklyMenu, error) {
	if !model.ValidDate(weekStart) {
		return nil, apperrors.ErrInvalidDate
	}

	menu, err := s.menuRepo.FindByWeekStart(ctx, weekStart)
	if err == nil {
		return menu, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find menu: %w", err)
	}

	menu = model.DefaultWeeklyMenu(weekStart)
	if err := s.menuRepo.Create(ctx, menu); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.menuRepo.FindByWeekStart(ctx, weekStart)
		}
		return nil, fmt.Errorf("create menu: %w", err)
	}
	return menu, nil
}

// CastVote records or replaces a user's choice for one (day, slot,
// category). A first vote inserts the row, bumps the option counter and
// awards the voting bonus; a revote swaps the option and moves the
// counters without awarding again. The whole effect is one transaction.
func (s *menuService) CastVote(ctx context.Context, userID uuid.UUID, in CastVoteInput) (bool, error) {
	day := strings.ToLower(in.Day)
	slot := strings.ToLower(in.MealSlot)
	if !model.ValidDay(day) {
		return false, apperrors.ErrInvalidDay
	}
	if !model.ValidMealSlot(slot) {
		return false, apperrors.ErrInvalidMealSlot
	}
	if !model.ValidDate(in.WeekStart) {
		return false, apperrors.ErrInvalidDate
	}

	option, err := s.menuRepo.FindOption(ctx, in.WeekStart, slot, in.Category, in.OptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrOptionNotFound
		}
		return false, fmt.Errorf("find option: %w", err)
	}

	key := repository.VoteKey{
		UserID:    userID,
		WeekStart: in.WeekStart,
		Day:       day,
		MealSlot:  slot,
		Category:  in.Category,
	}

	created := false
	err = s.voteRepo.WithTransaction(ctx, func(ctx context.Context, tx interface{}) error {
		existing, err := s.voteRepo.FindByKeyForUpdateTx(ctx, tx, key)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find vote: %w", err)
		}

		if existing == nil {
			vote := &model.Vote{
				ID:        uuid.New(),
				UserID:    userID,
				WeekStart: in.WeekStart,
				Day:       day,
				MealSlot:  slot,
				Category:  in.Category,
				OptionID:  option.ID,
			}
			if err := s.voteRepo.CreateTx(ctx, tx, vote); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.ErrVoteConflict
				}
				return fmt.Errorf("create vote: %w", err)
			}
			if err := s.menuRepo.AdjustOptionVotesTx(ctx, tx, option.MenuID, option.ID, 1); err != nil {
				return fmt.Errorf("increment option votes: %w", err)
			}
			// First vote for this slot+category earns the bonus;
			// revotes never re-award.
			if err := s.userRepo.AdjustPointsTx(ctx, tx, userID, pointsVote); err != nil {
				return fmt.Errorf("award vote points: %w", err)
			}
			created = true
			return nil
		}

		if existing.OptionID == option.ID {
			return nil
		}

		if err := s.voteRepo.UpdateOptionTx(ctx, tx, existing.ID, option.ID); err != nil {
			return fmt.Errorf("update vote: %w", err)
		}
		if err := s.menuRepo.AdjustOptionVotesTx(ctx, tx, option.MenuID, existing.OptionID, -1); err != nil {
			return fmt.Errorf("decrement old option votes: %w", err)
		}
		if err := s.menuRepo.AdjustOptionVotesTx(ctx, tx, option.MenuID, option.ID, 1); err != nil {
			return fmt.Errorf("increment new option votes: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// UserVotes returns a user's current choices for a week keyed by
// "day-mealSlot-category", the shape the voting grid consumes.
func (s *menuService) UserVotes(ctx context.Context, userID uuid.UUID, weekStart string) (map[string]string, error) {
	votes, err := s.voteRepo.ListByUserWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}

	voteMap := make(map[string]string, len(votes))
	for _, v := range votes {
		voteMap[fmt.Sprintf("%s-%s-%s", v.Day, v.MealSlot, v.Category)] = v.OptionID
	}
	return voteMap, nil
}

// PopularOptions tallies the most voted options of a week from the vote
// rows themselves.
func (s *menuService) PopularOptions(ctx context.Context, weekStart string, limit int) ([]repository.OptionCount, error) {
	return s.voteRepo.CountByOption(ctx, weekStart, limit)
}

// RecountVotes rebuilds every denormalized option counter of a menu from
// the vote rows. The counters are derived data; this restores the
// invariant counter == count(votes referencing the option) if the two
// ever drift.
func (s *menuService) RecountVotes(ctx context.Context, menuID uuid.UUID) error {
	menu, err := s.menuRepo.FindByID(ctx, menuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMenuNotFound
		}
		return fmt.Errorf("find menu: %w", err)
	}

	options, err := s.menuRepo.OptionsByMenu(ctx, menuID)
	if err != nil {
		return fmt.Errorf("list options: %w", err)
	}

	for _, option := range options {
		count, err := s.voteRepo.CountMatching(ctx, menu.WeekStart, option.MealSlot, option.Category, option.ID)
		if err != nil {
			return fmt.Errorf("count votes for %s: %w", option.ID, err)
		}
		if int64(option.Votes) == count {
			continue
		}
		if err := s.menuRepo.SetOptionVotes(ctx, menuID, option.ID, count); err != nil {
			return fmt.Errorf("set votes for %s: %w", option.ID, err)
		}
	}
	return nil
}
