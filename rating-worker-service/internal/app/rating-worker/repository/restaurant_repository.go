package repository

import (
	"context"
	"fmt"

	"restaurantreviews/pkg/metrics"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

// UpdateRating записывает средний рейтинг и количество отзывов
func (r *restaurantRepository) UpdateRating(ctx context.Context, id uuid.UUID, average float64, total int) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.StorePostgres, metrics.DbOpUpdate, "restaurants")
	defer timer.Observe(&err, ErrRestaurantNotFound)

	result := r.db.WithContext(ctx).
		Model(&entity.Restaurant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"average_rating": average,
			"total_reviews":  total,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update restaurant rating: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrRestaurantNotFound
	}

	return nil
}

func (r *restaurantRepository) ListRatedIDs(ctx context.Context) (_ []uuid.UUID, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.StorePostgres, metrics.DbOpSelect, "restaurants")
	defer timer.Observe(&err)

	var ids []uuid.UUID
	err = r.db.WithContext(ctx).
		Model(&entity.Restaurant{}).
		Where("total_reviews > ?", 0).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rated restaurants: %w", err)
	}

	return ids, nil
}
