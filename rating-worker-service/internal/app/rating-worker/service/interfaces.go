package service

import (
	"context"

	"restaurantreviews/rating-worker-service/internal/app/rating-worker/entity"
)

// RatingServiceInterface пересчитывает рейтинг ресторанов по отзывам
type RatingServiceInterface interface {
	// ProcessReviewEvent обрабатывает событие отзыва из Kafka
	ProcessReviewEvent(ctx context.Context, event *entity.ReviewEvent) error
	// RecalculateRestaurant пересчитывает рейтинг одного ресторана
	RecalculateRestaurant(ctx context.Context, restaurantID, trigger string) error
	// ReconcileAll сверяет рейтинги всех ресторанов с отзывами в MongoDB, возвращает число обновленных
	ReconcileAll(ctx context.Context) (int, error)
}
