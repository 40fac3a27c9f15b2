package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restaurantreviews/pkg/logger"
	"restaurantreviews/pkg/metrics"
	"restaurantreviews/reviews-service/internal/app/reviews/entity"
	"restaurantreviews/reviews-service/internal/app/reviews/infrastructure"
	"restaurantreviews/reviews-service/internal/app/reviews/repository"

	"github.com/google/uuid"
)

const (
	msgOwnRestaurant   = "restaurant owners cannot review their own restaurant"
	msgAlreadyReviewed = "user has already reviewed this restaurant"
	msgNotAuthor       = "only the author can edit this review"
	msgEditWindow      = "review can no longer be edited"
)

// ReviewService обрабатывает бизнес-логику отзывов
// Координирует работу репозиториев (MongoDB, PostgreSQL) и Kafka
type ReviewService struct {
	reviewRepo     repository.ReviewRepository
	restaurantRepo repository.RestaurantRepository
	kafkaProducer  infrastructure.MessagePublisher
	editWindow     time.Duration
	now            func() time.Time
}

// NewReviewService создает новый сервис отзывов.
// editWindow <= 0 отключает ограничение на срок редактирования.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	restaurantRepo repository.RestaurantRepository,
	kafkaProducer infrastructure.MessagePublisher,
	editWindow time.Duration,
) *ReviewService {
	return &ReviewService{
		reviewRepo:     reviewRepo,
		restaurantRepo: restaurantRepo,
		kafkaProducer:  kafkaProducer,
		editWindow:     editWindow,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// CreateReview создает отзыв от имени author
// 1. Проверяет, что ресторан существует и author не его владелец
// 2. Проверяет, что author еще не оставлял отзыв на этот ресторан
// 3. Сохраняет отзыв в MongoDB и отправляет REVIEW_CREATED в Kafka
func (s *ReviewService) CreateReview(ctx context.Context, author entity.User, restaurantID string, req entity.ReviewCreateUpdateRequest) (*entity.Review, error) {
	restaurant, err := s.getRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	if restaurant.CreatedBy != "" && restaurant.CreatedBy == author.ID {
		metrics.ReviewsNotAllowed.WithLabelValues("own_restaurant").Inc()
		return nil, ReviewNotAllowed(msgOwnRestaurant)
	}

	exists, err := s.reviewRepo.ExistsByAuthor(ctx, restaurantID, author.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		metrics.ReviewsNotAllowed.WithLabelValues("duplicate").Inc()
		return nil, ReviewNotAllowed(msgAlreadyReviewed)
	}

	now := s.now()
	review := &entity.Review{
		RestaurantID: restaurantID,
		WrittenBy:    author.Summary(),
		Rating:       req.Rating,
		Content:      req.Content,
		Photos:       photosFromIDs(req.PhotoIDs, now),
		DatePosted:   now,
		LastEdited:   now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// Параллельный запрос успел создать отзыв между проверкой и вставкой
		if errors.Is(err, repository.ErrDuplicateReview) {
			metrics.ReviewsNotAllowed.WithLabelValues("duplicate").Inc()
			return nil, ReviewNotAllowedWithCause(msgAlreadyReviewed, err)
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	metrics.ReviewsRating.Observe(float64(review.Rating))

	s.publishReviewEvent(ctx, entity.EventReviewCreated, review.ID.Hex(), review)

	return review, nil
}

// ListReviews возвращает страницу отзывов ресторана; сортировка и пагинация выполняются в MongoDB
func (s *ReviewService) ListReviews(ctx context.Context, restaurantID string, page entity.PageRequest) (*entity.Page[entity.Review], error) {
	if _, err := s.getRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.FindByRestaurant(ctx, restaurantID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return entity.NewPage(reviews, page, total), nil
}

func (s *ReviewService) GetReview(ctx context.Context, restaurantID, reviewID string) (*entity.Review, bool, error) {
	review, err := s.reviewRepo.FindByID(ctx, restaurantID, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get review: %w", err)
	}

	return review, true, nil
}

// UpdateReview обновляет рейтинг, текст и фото отзыва
// Редактировать может только автор и только в пределах editWindow с момента публикации
func (s *ReviewService) UpdateReview(ctx context.Context, author entity.User, restaurantID, reviewID string, req entity.ReviewCreateUpdateRequest) (*entity.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, restaurantID, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	if review.WrittenBy.ID != author.ID {
		metrics.ReviewsNotAllowed.WithLabelValues("not_author").Inc()
		return nil, ReviewNotAllowed(msgNotAuthor)
	}

	now := s.now()
	if s.editWindow > 0 && now.Sub(review.DatePosted) > s.editWindow {
		metrics.ReviewsNotAllowed.WithLabelValues("edit_window").Inc()
		return nil, ReviewNotAllowed(msgEditWindow)
	}

	review.Rating = req.Rating
	review.Content = req.Content
	review.Photos = photosFromIDs(req.PhotoIDs, now)
	review.LastEdited = now

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	metrics.ReviewsUpdated.Inc()

	s.publishReviewEvent(ctx, entity.EventReviewUpdated, review.ID.Hex(), review)

	return review, nil
}

// DeleteReview удаляет отзыв; удаление несуществующего отзыва ничего не делает
func (s *ReviewService) DeleteReview(ctx context.Context, restaurantID, reviewID string) error {
	deleted, err := s.reviewRepo.Delete(ctx, restaurantID, reviewID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if !deleted {
		return nil
	}

	metrics.ReviewsDeleted.Inc()

	s.publishReviewEvent(ctx, entity.EventReviewDeleted, reviewID, &entity.Review{RestaurantID: restaurantID})

	return nil
}

func (s *ReviewService) getRestaurant(ctx context.Context, restaurantID string) (*entity.Restaurant, error) {
	id, err := uuid.Parse(restaurantID)
	if err != nil {
		return nil, ErrRestaurantNotFound
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return restaurant, nil
}

// publishReviewEvent отправляет событие в Kafka.
// Отзыв к этому моменту уже сохранен, поэтому ошибка только логируется:
// rating-worker догонит рейтинг при плановой сверке.
func (s *ReviewService) publishReviewEvent(ctx context.Context, eventType, reviewID string, review *entity.Review) {
	event := entity.ReviewEvent{
		EventType:    eventType,
		ReviewID:     reviewID,
		RestaurantID: review.RestaurantID,
		UserID:       review.WrittenBy.ID,
		Rating:       review.Rating,
		Timestamp:    s.now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("Failed to marshal review event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.RestaurantID, payload); err != nil {
		logger.Error().
			Err(err).
			Str("event_type", eventType).
			Str("review_id", reviewID).
			Str("restaurant_id", event.RestaurantID).
			Msg("Failed to publish review event")
	}
}

func photosFromIDs(ids []string, uploaded time.Time) []entity.Photo {
	if len(ids) == 0 {
		return nil
	}

	photos := make([]entity.Photo, 0, len(ids))
	for _, id := range ids {
		photos = append(photos, entity.Photo{URL: id, UploadDate: uploaded})
	}
	return photos
}
