package mocks

import (
	"context"

	"restaurantreviews/rating-worker-service/internal/app/rating-worker/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRestaurantRepository мок для RestaurantRepository
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) UpdateRating(ctx context.Context, id uuid.UUID, average float64, total int) error {
	args := m.Called(ctx, id, average, total)
	return args.Error(0)
}

func (m *MockRestaurantRepository) ListRatedIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockReviewStatsRepository мок для ReviewStatsRepository
type MockReviewStatsRepository struct {
	mock.Mock
}

func (m *MockReviewStatsRepository) StatsForRestaurant(ctx context.Context, restaurantID string) (entity.RatingStats, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(entity.RatingStats), args.Error(1)
}

func (m *MockReviewStatsRepository) AllStats(ctx context.Context) ([]entity.RatingStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RatingStats), args.Error(1)
}
