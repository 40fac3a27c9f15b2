package handler

import (
	"errors"
	"net/http"
	"strconv"

	"restaurantreviews/pkg/logger"
	"restaurantreviews/reviews-service/internal/app/reviews/entity"
	"restaurantreviews/reviews-service/internal/app/reviews/mapper"
	"restaurantreviews/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
	mapper        mapper.ReviewMapper
	validator     *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewServiceInterface, reviewMapper mapper.ReviewMapper) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		mapper:        reviewMapper,
		validator:     validator.New(),
	}
}

// ListReviews GET /restaurants/:restaurant_id/reviews?page=&size=&sort=
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")

	page, err := queryInt(c, "page", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid page parameter"})
		return
	}
	size, err := queryInt(c, "size", entity.DefaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid size parameter"})
		return
	}

	pageReq, err := entity.NewPageRequest(page, size, c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid sort parameter", Message: err.Error()})
		return
	}

	result, err := h.reviewService.ListReviews(c.Request.Context(), restaurantID, pageReq)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get reviews", http.StatusForbidden)
		return
	}

	c.JSON(http.StatusOK, h.mapper.ToPageDto(result))
}

// GetReview GET /restaurants/:restaurant_id/reviews/:review_id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, found, err := h.reviewService.GetReview(c.Request.Context(), c.Param("restaurant_id"), c.Param("review_id"))
	if err != nil {
		h.respondServiceError(c, err, "Failed to get review", http.StatusForbidden)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Review not found"})
		return
	}

	c.JSON(http.StatusOK, h.mapper.ToDto(review))
}

// CreateReview POST /restaurants/:restaurant_id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
		return
	}

	req, ok := h.bindReviewRequest(c)
	if !ok {
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), user, c.Param("restaurant_id"), req)
	if err != nil {
		// Нарушение бизнес-правила при создании - 422
		h.respondServiceError(c, err, "Failed to create review", http.StatusUnprocessableEntity)
		return
	}

	c.JSON(http.StatusCreated, h.mapper.ToDto(review))
}

// UpdateReview PUT /restaurants/:restaurant_id/reviews/:review_id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
		return
	}

	req, ok := h.bindReviewRequest(c)
	if !ok {
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), user, c.Param("restaurant_id"), c.Param("review_id"), req)
	if err != nil {
		// Чужой или просроченный отзыв - 403
		h.respondServiceError(c, err, "Failed to update review", http.StatusForbidden)
		return
	}

	c.JSON(http.StatusOK, h.mapper.ToDto(review))
}

// DeleteReview DELETE /restaurants/:restaurant_id/reviews/:review_id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("restaurant_id"), c.Param("review_id")); err != nil {
		h.respondServiceError(c, err, "Failed to delete review", http.StatusForbidden)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) bindReviewRequest(c *gin.Context) (entity.ReviewCreateUpdateRequest, bool) {
	var dto entity.ReviewCreateUpdateRequestDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return entity.ReviewCreateUpdateRequest{}, false
	}

	if err := h.validator.Struct(dto); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Validation failed", Message: formatValidationError(err)})
		return entity.ReviewCreateUpdateRequest{}, false
	}

	return h.mapper.ToReviewCreateUpdateRequest(dto), true
}

// respondServiceError переводит ошибки сервиса в HTTP-статусы;
// notAllowedStatus зависит от операции
func (h *ReviewHandler) respondServiceError(c *gin.Context, err error, fallback string, notAllowedStatus int) {
	var notAllowed *service.ReviewNotAllowedError

	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Restaurant not found"})
	case errors.Is(err, service.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Review not found"})
	case errors.As(err, &notAllowed):
		c.JSON(notAllowedStatus, entity.ErrorResponse{Error: "Review not allowed", Message: notAllowed.Message})
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: fallback})
	}
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
