package entity

import "time"

// ReviewCreateUpdateRequestDto - тело запроса на создание и обновление отзыва
type ReviewCreateUpdateRequestDto struct {
	Content  string   `json:"content" validate:"required,min=1,max=2000"`
	Rating   int      `json:"rating" validate:"required,min=1,max=5"`
	PhotoIDs []string `json:"photoIds" validate:"omitempty,max=10,dive,required"`
}

type UserSummaryDto struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type PhotoDto struct {
	URL        string    `json:"url"`
	Caption    string    `json:"caption,omitempty"`
	UploadDate time.Time `json:"uploadDate"`
}

// ReviewDto - представление отзыва в ответах API, поля в camelCase как у веб-клиента
type ReviewDto struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Rating     int            `json:"rating"`
	DatePosted time.Time      `json:"datePosted"`
	LastEdited time.Time      `json:"lastEdited"`
	Photos     []PhotoDto     `json:"photos,omitempty"`
	WrittenBy  UserSummaryDto `json:"writtenBy"`
}

type PageMetadataDto struct {
	PageNumber    int   `json:"pageNumber"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// PageDto - страница результатов
type PageDto[T any] struct {
	Content    []T             `json:"content"`
	Pageable   PageMetadataDto `json:"pageable"`
	TotalPages int             `json:"totalPages"`
	First      bool            `json:"first"`
	Last       bool            `json:"last"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
