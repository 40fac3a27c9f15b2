package repository

import (
	"context"
	"errors"

	"restaurantreviews/rating-worker-service/internal/app/rating-worker/entity"

	"github.com/google/uuid"
)

const serviceName = "rating-worker-service"

var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantRepository - запись рейтинга в PostgreSQL
type RestaurantRepository interface {
	UpdateRating(ctx context.Context, id uuid.UUID, average float64, total int) error
	// ListRatedIDs возвращает рестораны с total_reviews > 0
	ListRatedIDs(ctx context.Context) ([]uuid.UUID, error)
}

// ReviewStatsRepository - агрегаты по отзывам из MongoDB
type ReviewStatsRepository interface {
	StatsForRestaurant(ctx context.Context, restaurantID string) (entity.RatingStats, error)
	AllStats(ctx context.Context) ([]entity.RatingStats, error)
}
