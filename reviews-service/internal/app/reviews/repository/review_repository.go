package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurantreviews/pkg/logger"
	"restaurantreviews/pkg/metrics"
	"restaurantreviews/reviews-service/internal/app/reviews/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	reviewsCollection = "reviews"
	serviceName       = "reviews-service"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("review by this author already exists")
)

// Поля сортировки API -> поля документа
var sortFields = map[entity.SortField]string{
	entity.SortByDatePosted: "date_posted",
	entity.SortByRating:     "rating",
}

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository создает новый репозиторий отзывов и индексы коллекции
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection(reviewsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "restaurant_id", Value: 1}, {Key: "date_posted", Value: -1}},
			Options: options.Index().SetName("restaurant_id_date_posted_idx"),
		},
		{
			// Один отзыв от пользователя на ресторан
			Keys:    bson.D{{Key: "restaurant_id", Value: 1}, {Key: "written_by.id", Value: 1}},
			Options: options.Index().SetName("restaurant_author_uniq").SetUnique(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Не прерываем работу - индексы могут уже существовать
		logger.Warn().Err(err).Str("collection", reviewsCollection).Msg("Failed to create indexes")
	}

	return &reviewRepository{
		collection: collection,
	}
}

// Create создает новый отзыв в MongoDB
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.StoreMongo, metrics.DbOpInsert, reviewsCollection)
	defer timer.Observe(&err, ErrReviewNotFound, ErrDuplicateReview)

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	// Устанавливаем ID из результата вставки
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

// FindByRestaurant возвращает страницу отзывов ресторана и общее количество
func (r *reviewRepository) FindByRestaurant(ctx context.Context, restaurantID string, page entity.PageRequest) (reviews []entity.Review, total int64, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.StoreMongo, metrics.DbOpSelect, reviewsCollection)
	defer timer.Observe(&err, ErrReviewNotFound, ErrDuplicateReview)

	filter := bson.M{"restaurant_id": restaurantID}

	total, err = r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	if total == 0 || page.Offset() >= total {
		return []entity.Review{}, total, nil
	}

	opts := options.Find().
		SetSort(sortDocument(page.Sort)).
		SetSkip(page.Offset()).
		SetLimit(int64(page.Size))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews = []entity.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, 0, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, total, nil
}

// FindByID ищет отзыв внутри ресторана; некорректный ID равносилен отсутствию отзыва
func (r *reviewRepository) FindByID(ctx context.Context, restaurantID, reviewID string) (_ *entity.Review, err error) {
	objectID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return nil, ErrReviewNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.StoreMongo, metrics.DbOpSelect, reviewsCollection)
	defer timer.Observe(&err, ErrReviewNotFound, ErrDuplicateReview)

	filter := bson.M{"_id": objectID, "restaurant_id": restaurantID}

	var review entity.Review
	err = r.collection.FindOne(ctx, filter).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

func (r *reviewRepository) ExistsByAuthor(ctx context.Context, restaurantID, userID string) (_ bool, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.StoreMongo, metrics.DbOpCount, reviewsCollection)
	defer timer.Observe(&err, ErrReviewNotFound, ErrDuplicateReview)

	filter := bson.M{"restaurant_id": restaurantID, "written_by.id": userID}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}

	return count > 0, nil
}

// Update сохраняет изменяемые поля отзыва
func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.StoreMongo, metrics.DbOpUpdate, reviewsCollection)
	defer timer.Observe(&err, ErrReviewNotFound, ErrDuplicateReview)

	filter := bson.M{"_id": review.ID, "restaurant_id": review.RestaurantID}
	update := bson.M{
		"$set": bson.M{
			"rating":      review.Rating,
			"content":     review.Content,
			"photos":      review.Photos,
			"last_edited": review.LastEdited,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// Delete удаляет отзыв; отсутствие документа не считается ошибкой
func (r *reviewRepository) Delete(ctx context.Context, restaurantID, reviewID string) (_ bool, err error) {
	objectID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return false, nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.StoreMongo, metrics.DbOpDelete, reviewsCollection)
	defer timer.Observe(&err, ErrReviewNotFound, ErrDuplicateReview)

	filter := bson.M{"_id": objectID, "restaurant_id": restaurantID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to delete review: %w", err)
	}

	return result.DeletedCount > 0, nil
}

// sortDocument добавляет _id вторым ключом, чтобы порядок страниц был стабильным
func sortDocument(order entity.SortOrder) bson.D {
	field, ok := sortFields[order.Field]
	if !ok {
		field = sortFields[entity.DefaultSort.Field]
	}

	direction := -1
	if order.Direction == entity.SortAsc {
		direction = 1
	}

	return bson.D{{Key: field, Value: direction}, {Key: "_id", Value: direction}}
}
