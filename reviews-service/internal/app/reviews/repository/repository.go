package repository

import (
	"context"

	"restaurantreviews/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
)

// ReviewRepository определяет методы для работы с отзывами в MongoDB
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByRestaurant(ctx context.Context, restaurantID string, page entity.PageRequest) ([]entity.Review, int64, error)
	FindByID(ctx context.Context, restaurantID, reviewID string) (*entity.Review, error)
	ExistsByAuthor(ctx context.Context, restaurantID, userID string) (bool, error)
	Update(ctx context.Context, review *entity.Review) error
	// Delete возвращает true, если документ был удален
	Delete(ctx context.Context, restaurantID, reviewID string) (bool, error)
}

// RestaurantRepository - чтение ресторанов из PostgreSQL
type RestaurantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error)
}

// TokenBlacklist - отозванные токены, которые auth-сервис кладет в Redis при logout
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
