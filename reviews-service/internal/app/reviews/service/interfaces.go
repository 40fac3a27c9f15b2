package service

import (
	"context"

	"restaurantreviews/reviews-service/internal/app/reviews/entity"
)

// ReviewServiceInterface - операции над отзывами ресторана
type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, author entity.User, restaurantID string, req entity.ReviewCreateUpdateRequest) (*entity.Review, error)
	ListReviews(ctx context.Context, restaurantID string, page entity.PageRequest) (*entity.Page[entity.Review], error)
	// GetReview возвращает found=false без ошибки, если отзыва нет
	GetReview(ctx context.Context, restaurantID, reviewID string) (*entity.Review, bool, error)
	UpdateReview(ctx context.Context, author entity.User, restaurantID, reviewID string, req entity.ReviewCreateUpdateRequest) (*entity.Review, error)
	DeleteReview(ctx context.Context, restaurantID, reviewID string) error
}
