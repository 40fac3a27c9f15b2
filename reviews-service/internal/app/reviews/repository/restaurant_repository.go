package repository

import (
	"context"
	"errors"
	"fmt"

	"restaurantreviews/pkg/metrics"
	"restaurantreviews/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

// GetByID получает ресторан по ID
func (r *restaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (_ *entity.Restaurant, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.StorePostgres, metrics.DbOpSelect, "restaurants")
	defer timer.Observe(&err, ErrRestaurantNotFound)

	var restaurant entity.Restaurant
	err = r.db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return &restaurant, nil
}
