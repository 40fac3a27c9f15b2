package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review - отзыв о ресторане, хранится в MongoDB (коллекция reviews)
type Review struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RestaurantID string             `json:"restaurant_id" bson:"restaurant_id"` // UUID ресторана из PostgreSQL
	WrittenBy    UserSummary        `json:"written_by" bson:"written_by"`
	Rating       int                `json:"rating" bson:"rating"` // Оценка от 1 до 5
	Content      string             `json:"content" bson:"content"`
	Photos       []Photo            `json:"photos,omitempty" bson:"photos,omitempty"`
	DatePosted   time.Time          `json:"date_posted" bson:"date_posted"`
	LastEdited   time.Time          `json:"last_edited" bson:"last_edited"`
}

type Photo struct {
	URL        string    `json:"url" bson:"url"`
	Caption    string    `json:"caption,omitempty" bson:"caption,omitempty"`
	UploadDate time.Time `json:"upload_date" bson:"upload_date"`
}

// UserSummary - автор отзыва в том виде, в каком он сохраняется вместе с отзывом
type UserSummary struct {
	ID       string `json:"id" bson:"id"`
	Username string `json:"username" bson:"username"`
}

// User - аутентифицированный пользователь, собирается из JWT в AuthMiddleware
type User struct {
	ID       string
	Username string
	Email    string
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}

// Restaurant - ресторан из PostgreSQL; reviews-service только читает его
type Restaurant struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	CuisineType   string    `json:"cuisine_type" gorm:"type:varchar(100)"`
	CreatedBy     string    `json:"created_by" gorm:"type:varchar(64)"` // ID владельца
	AverageRating float64   `json:"average_rating" gorm:"type:decimal(2,1);not null;default:0"`
	TotalReviews  int       `json:"total_reviews" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

// ReviewCreateUpdateRequest - провалидированный ввод для создания и редактирования отзыва
type ReviewCreateUpdateRequest struct {
	Rating   int
	Content  string
	PhotoIDs []string
}

const (
	EventReviewCreated = "REVIEW_CREATED"
	EventReviewUpdated = "REVIEW_UPDATED"
	EventReviewDeleted = "REVIEW_DELETED"
)

// ReviewEvent отправляется в Kafka (топик review_events), ключ - restaurant_id
type ReviewEvent struct {
	EventType    string    `json:"event_type"`
	ReviewID     string    `json:"review_id"`
	RestaurantID string    `json:"restaurant_id"`
	UserID       string    `json:"user_id,omitempty"`
	Rating       int       `json:"rating,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
