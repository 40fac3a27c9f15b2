package entity

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant - поля ресторана, которые обновляет worker
type Restaurant struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AverageRating float64   `json:"average_rating" gorm:"type:decimal(2,1);not null;default:0"`
	TotalReviews  int       `json:"total_reviews" gorm:"not null;default:0"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

const (
	EventReviewCreated = "REVIEW_CREATED"
	EventReviewUpdated = "REVIEW_UPDATED"
	EventReviewDeleted = "REVIEW_DELETED"
)

// ReviewEvent - событие из топика review_events (публикует reviews-service)
type ReviewEvent struct {
	EventType    string    `json:"event_type"`
	ReviewID     string    `json:"review_id"`
	RestaurantID string    `json:"restaurant_id"`
	UserID       string    `json:"user_id,omitempty"`
	Rating       int       `json:"rating,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e ReviewEvent) IsKnown() bool {
	switch e.EventType {
	case EventReviewCreated, EventReviewUpdated, EventReviewDeleted:
		return true
	}
	return false
}

// RatingStats - агрегат по отзывам ресторана из MongoDB
type RatingStats struct {
	RestaurantID string  `bson:"_id"`
	Average      float64 `bson:"average"`
	Count        int     `bson:"count"`
}

// Источник пересчета рейтинга, метка для метрик
const (
	TriggerEvent     = "event"
	TriggerReconcile = "reconcile"
)
