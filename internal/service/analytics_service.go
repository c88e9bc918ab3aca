package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"smartmess/internal/cache"
	"smartmess/internal/model"
	"smartmess/internal/repository"
)

const (
	analyticsCacheKey = "analytics:overview"
	analyticsCacheTTL = 5 * time.Minute
	popularLimit      = 5
)

// Overview is the admin dashboard summary.
type Overview struct {
	TotalUsers       int64                    `json:"totalUsers"`
	TotalBookings    int64                    `json:"totalBookings"`
	AvgWasteRating   string                   `json:"avgWasteRating"`
	CancellationRate string                   `json:"cancellationRate"`
	PopularOptions   []repository.OptionCount `json:"popularOptions"`
}

// AnalyticsService aggregates mess-wide stats for admins.
type AnalyticsService interface {
	Overview(ctx context.Context) (*Overview, error)
}

type analyticsService struct {
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRepository
	voteRepo    repository.VoteRepository
	cache       *cache.Client
	now         func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(userRepo repository.UserRepository, bookingRepo repository.BookingRepository, voteRepo repository.VoteRepository, cache *cache.Client) AnalyticsService {
	return &analyticsService{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		voteRepo:    voteRepo,
		cache:       cache,
		now:         time.Now,
	}
}

// Overview returns the aggregate stats, cached for a few minutes. The
// numbers are informational; slight staleness is fine.
func (s *analyticsService) Overview(ctx context.Context) (*Overview, error) {
	if data, _ := s.cache.Get(ctx, analyticsCacheKey); data != nil {
		var cached Overview
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	totalBookings, err := s.bookingRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	cancelled, err := s.bookingRepo.CountByStatus(ctx, model.BookingStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("count cancelled bookings: %w", err)
	}
	avg, rated, err := s.bookingRepo.AverageWasteRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("average waste rating: %w", err)
	}

	avgRating := "n/a"
	if rated {
		avgRating = decimal.NewFromFloat(avg).Round(1).String()
	}

	rate := "0%"
	if totalBookings > 0 {
		rate = decimal.NewFromInt(cancelled).
			Div(decimal.NewFromInt(totalBookings)).
			Mul(decimal.NewFromInt(100)).
			Round(1).String() + "%"
	}

	popular, err := s.voteRepo.CountByOption(ctx, model.WeekStartDate(s.now()), popularLimit)
	if err != nil {
		return nil, fmt.Errorf("popular options: %w", err)
	}

	overview := &Overview{
		TotalUsers:       totalUsers,
		TotalBookings:    totalBookings,
		AvgWasteRating:   avgRating,
		CancellationRate: rate,
		PopularOptions:   popular,
	}

	if payload, err := json.Marshal(overview); err == nil {
		_ = s.cache.Set(ctx, analyticsCacheKey, payload, analyticsCacheTTL)
	}

	return overview, nil
}
