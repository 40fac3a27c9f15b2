package repository

import (
	"context"
	"fmt"

	"restaurantreviews/pkg/metrics"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const reviewsCollection = "reviews"

type reviewStatsRepository struct {
	collection *mongo.Collection
}

// NewReviewStatsRepository читает коллекцию reviews, которую ведет reviews-service
func NewReviewStatsRepository(db *mongo.Database) ReviewStatsRepository {
	return &reviewStatsRepository{collection: db.Collection(reviewsCollection)}
}

// StatsForRestaurant считает средний рейтинг и количество отзывов ресторана.
// Для ресторана без отзывов возвращает нулевую статистику.
func (r *reviewStatsRepository) StatsForRestaurant(ctx context.Context, restaurantID string) (entity.RatingStats, error) {
	stats, err := r.aggregate(ctx, bson.D{{Key: "$match", Value: bson.M{"restaurant_id": restaurantID}}})
	if err != nil {
		return entity.RatingStats{}, err
	}
	if len(stats) == 0 {
		return entity.RatingStats{RestaurantID: restaurantID}, nil
	}
	return stats[0], nil
}

func (r *reviewStatsRepository) AllStats(ctx context.Context) ([]entity.RatingStats, error) {
	return r.aggregate(ctx)
}

func (r *reviewStatsRepository) aggregate(ctx context.Context, stages ...bson.D) (_ []entity.RatingStats, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.StoreMongo, metrics.DbOpAggregate, reviewsCollection)
	defer timer.Observe(&err)

	pipeline := mongo.Pipeline{}
	pipeline = append(pipeline, stages...)
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":     "$restaurant_id",
		"average": bson.M{"$avg": "$rating"},
		"count":   bson.M{"$sum": 1},
	}}})

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate review stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []entity.RatingStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode review stats: %w", err)
	}

	return stats, nil
}
