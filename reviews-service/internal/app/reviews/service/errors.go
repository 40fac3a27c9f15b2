package service

import "errors"

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrReviewNotAllowed   = errors.New("review not allowed")
)

// ReviewNotAllowedError - операция с отзывом нарушает бизнес-правило
// (отзыв на собственный ресторан, повторный отзыв, правка чужого отзыва).
// errors.Is(err, ErrReviewNotAllowed) истинно для любого экземпляра.
type ReviewNotAllowedError struct {
	Message string
	Cause   error
}

func NewReviewNotAllowedError() *ReviewNotAllowedError {
	return &ReviewNotAllowedError{}
}

func ReviewNotAllowed(message string) *ReviewNotAllowedError {
	return &ReviewNotAllowedError{Message: message}
}

func ReviewNotAllowedWithCause(message string, cause error) *ReviewNotAllowedError {
	return &ReviewNotAllowedError{Message: message, Cause: cause}
}

func ReviewNotAllowedCause(cause error) *ReviewNotAllowedError {
	return &ReviewNotAllowedError{Cause: cause}
}

func (e *ReviewNotAllowedError) Error() string {
	msg := ErrReviewNotAllowed.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ReviewNotAllowedError) Unwrap() error {
	return e.Cause
}

func (e *ReviewNotAllowedError) Is(target error) bool {
	return target == ErrReviewNotAllowed
}
