package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"smartmess/internal/model"
	"smartmess/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) AdjustPointsTx(ctx context.Context, tx interface{}, id uuid.UUID, delta int) error {
	args := m.Called(ctx, tx, id, delta)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementStreakTx(ctx context.Context, tx interface{}, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockMenuRepository is a mock implementation of MenuRepository.
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) Create(ctx context.Context, menu *model.WeeklyMenu) error {
	args := m.Called(ctx, menu)
	return args.Error(0)
}

func (m *MockMenuRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WeeklyMenu, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeeklyMenu), args.Error(1)
}

func (m *MockMenuRepository) FindByWeekStart(ctx context.Context, weekStart string) (*model.WeeklyMenu, error) {
	args := m.Called(ctx, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeeklyMenu), args.Error(1)
}

func (m *MockMenuRepository) FindOption(ctx context.Context, weekStart, mealSlot, category, optionID string) (*model.MealOption, error) {
	args := m.Called(ctx, weekStart, mealSlot, category, optionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MealOption), args.Error(1)
}

func (m *MockMenuRepository) OptionsByMenu(ctx context.Context, menuID uuid.UUID) ([]model.MealOption, error) {
	args := m.Called(ctx, menuID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MealOption), args.Error(1)
}

func (m *MockMenuRepository) SetOptionVotes(ctx context.Context, menuID uuid.UUID, optionID string, votes int64) error {
	args := m.Called(ctx, menuID, optionID, votes)
	return args.Error(0)
}

func (m *MockMenuRepository) AdjustOptionVotesTx(ctx context.Context, tx interface{}, menuID uuid.UUID, optionID string, delta int) error {
	args := m.Called(ctx, tx, menuID, optionID, delta)
	return args.Error(0)
}

// MockVoteRepository is a mock implementation of VoteRepository. Its
// WithTransaction runs the callback with a nil handle so transactional
// flows execute in-process.
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interface{}) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, nil)
}

func (m *MockVoteRepository) FindByKeyForUpdateTx(ctx context.Context, tx interface{}, key repository.VoteKey) (*model.Vote, error) {
	args := m.Called(ctx, tx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vote), args.Error(1)
}

func (m *MockVoteRepository) CreateTx(ctx context.Context, tx interface{}, vote *model.Vote) error {
	args := m.Called(ctx, tx, vote)
	return args.Error(0)
}

func (m *MockVoteRepository) UpdateOptionTx(ctx context.Context, tx interface{}, id uuid.UUID, optionID string) error {
	args := m.Called(ctx, tx, id, optionID)
	return args.Error(0)
}

func (m *MockVoteRepository) ListByUserWeek(ctx context.Context, userID uuid.UUID, weekStart string) ([]model.Vote, error) {
	args := m.Called(ctx, userID, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Vote), args.Error(1)
}

func (m *MockVoteRepository) CountByOption(ctx context.Context, weekStart string, limit int) ([]repository.OptionCount, error) {
	args := m.Called(ctx, weekStart, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.OptionCount), args.Error(1)
}

func (m *MockVoteRepository) CountMatching(ctx context.Context, weekStart, mealSlot, category, optionID string) (int64, error) {
	args := m.Called(ctx, weekStart, mealSlot, category, optionID)
	return args.Get(0).(int64), args.Error(1)
}

// MockBookingRepository is a mock implementation of BookingRepository.
// Like MockVoteRepository, WithTransaction runs the callback with a nil
// handle.
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interface{}) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, nil)
}

func (m *MockBookingRepository) CreateTx(ctx context.Context, tx interface{}, booking *model.Booking) error {
	args := m.Called(ctx, tx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) FindByIDForUpdateTx(ctx context.Context, tx interface{}, id uuid.UUID) (*model.Booking, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByCredentialForUpdateTx(ctx context.Context, tx interface{}, id uuid.UUID, date, mealSlot string) (*model.Booking, error) {
	args := m.Called(ctx, tx, id, date, mealSlot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingRepository) MarkCancelledTx(ctx context.Context, tx interface{}, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, tx, id, at)
	return args.Error(0)
}

func (m *MockBookingRepository) MarkCheckedInTx(ctx context.Context, tx interface{}, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, tx, id, at)
	return args.Error(0)
}

func (m *MockBookingRepository) MarkRatedTx(ctx context.Context, tx interface{}, id uuid.UUID, rating int, at time.Time) error {
	args := m.Called(ctx, tx, id, rating, at)
	return args.Error(0)
}

func (m *MockBookingRepository) ListByUserDate(ctx context.Context, userID uuid.UUID, date string) ([]model.Booking, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *MockBookingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context, status model.BookingStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) AverageWasteRating(ctx context.Context) (float64, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID, role string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}
