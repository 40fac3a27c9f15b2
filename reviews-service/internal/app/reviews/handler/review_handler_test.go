package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurantreviews/reviews-service/internal/app/reviews/entity"
	"restaurantreviews/reviews-service/internal/app/reviews/mapper"
	"restaurantreviews/reviews-service/internal/app/reviews/repository/mocks"
	"restaurantreviews/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, author entity.User, restaurantID string, req entity.ReviewCreateUpdateRequest) (*entity.Review, error) {
	args := m.Called(ctx, author, restaurantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) ListReviews(ctx context.Context, restaurantID string, page entity.PageRequest) (*entity.Page[entity.Review], error) {
	args := m.Called(ctx, restaurantID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Page[entity.Review]), args.Error(1)
}

func (m *MockReviewService) GetReview(ctx context.Context, restaurantID, reviewID string) (*entity.Review, bool, error) {
	args := m.Called(ctx, restaurantID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.Review), args.Bool(1), args.Error(2)
}

func (m *MockReviewService) UpdateReview(ctx context.Context, author entity.User, restaurantID, reviewID string, req entity.ReviewCreateUpdateRequest) (*entity.Review, error) {
	args := m.Called(ctx, author, restaurantID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, restaurantID, reviewID string) error {
	args := m.Called(ctx, restaurantID, reviewID)
	return args.Error(0)
}

var testUser = entity.User{ID: "user-123", Username: "alice", Email: "alice@example.com"}

func setupTestRouter(svc *MockReviewService, blacklist *mocks.MockTokenBlacklist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewReviewHandler(svc, mapper.NewReviewMapper())
	auth := NewAuthMiddleware(testSecret, nil)
	if blacklist != nil {
		auth = NewAuthMiddleware(testSecret, blacklist)
	}
	return SetupRoutes(h, auth, nil)
}

func signToken(t *testing.T, user entity.User, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleReview() *entity.Review {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	return &entity.Review{
		ID:           primitive.NewObjectID(),
		RestaurantID: "r-1",
		WrittenBy:    testUser.Summary(),
		Rating:       5,
		Content:      "Great",
		DatePosted:   now,
		LastEdited:   now,
	}
}

// ===================== CreateReview =====================

func TestCreateReviewHandler_Success(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)
	review := sampleReview()

	svc.On("CreateReview", mock.Anything, testUser, "r-1", entity.ReviewCreateUpdateRequest{Rating: 5, Content: "Great"}).Return(review, nil)

	w := doRequest(router, http.MethodPost, "/restaurants/r-1/reviews", signToken(t, testUser, testSecret, time.Hour),
		entity.ReviewCreateUpdateRequestDto{Rating: 5, Content: "Great"})

	assert.Equal(t, http.StatusCreated, w.Code)
	var dto entity.ReviewDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, review.ID.Hex(), dto.ID)
	assert.Equal(t, 5, dto.Rating)
	assert.Equal(t, "alice", dto.WrittenBy.Username)
	svc.AssertExpectations(t)
}

func TestCreateReviewHandler_CamelCaseWireFormat(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)
	review := sampleReview()
	review.Photos = []entity.Photo{{URL: "p1", UploadDate: review.DatePosted}}

	svc.On("CreateReview", mock.Anything, testUser, "r-1",
		entity.ReviewCreateUpdateRequest{Rating: 4, Content: "Nice", PhotoIDs: []string{"p1"}}).Return(review, nil)

	w := doRequest(router, http.MethodPost, "/restaurants/r-1/reviews", signToken(t, testUser, testSecret, time.Hour),
		json.RawMessage(`{"rating":4,"content":"Nice","photoIds":["p1"]}`))

	require.Equal(t, http.StatusCreated, w.Code)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "datePosted")
	assert.Contains(t, raw, "lastEdited")
	assert.Contains(t, raw, "writtenBy")
	photos, ok := raw["photos"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, photos[0], "uploadDate")
	svc.AssertExpectations(t)
}

func TestCreateReviewHandler_Unauthorized(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)

	w := doRequest(router, http.MethodPost, "/restaurants/r-1/reviews", "", entity.ReviewCreateUpdateRequestDto{Rating: 5, Content: "Great"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReviewHandler_ValidationErrors(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)
	token := signToken(t, testUser, testSecret, time.Hour)

	tests := []struct {
		name string
		body entity.ReviewCreateUpdateRequestDto
	}{
		{name: "rating too low", body: entity.ReviewCreateUpdateRequestDto{Rating: 0, Content: "x"}},
		{name: "rating too high", body: entity.ReviewCreateUpdateRequestDto{Rating: 6, Content: "x"}},
		{name: "empty content", body: entity.ReviewCreateUpdateRequestDto{Rating: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/restaurants/r-1/reviews", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	svc.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReviewHandler_NotAllowed(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)

	svc.On("CreateReview", mock.Anything, testUser, "r-1", mock.Anything).
		Return(nil, service.ReviewNotAllowed("user has already reviewed this restaurant"))

	w := doRequest(router, http.MethodPost, "/restaurants/r-1/reviews", signToken(t, testUser, testSecret, time.Hour),
		entity.ReviewCreateUpdateRequestDto{Rating: 5, Content: "Again"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user has already reviewed this restaurant", resp.Message)
}

func TestCreateReviewHandler_RestaurantNotFound(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)

	svc.On("CreateReview", mock.Anything, testUser, "missing", mock.Anything).Return(nil, service.ErrRestaurantNotFound)

	w := doRequest(router, http.MethodPost, "/restaurants/missing/reviews", signToken(t, testUser, testSecret, time.Hour),
		entity.ReviewCreateUpdateRequestDto{Rating: 5, Content: "Hi"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateReviewHandler_InternalError(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)

	svc.On("CreateReview", mock.Anything, testUser, "r-1", mock.Anything).Return(nil, errors.New("mongo down"))

	w := doRequest(router, http.MethodPost, "/restaurants/r-1/reviews", signToken(t, testUser, testSecret, time.Hour),
		entity.ReviewCreateUpdateRequestDto{Rating: 5, Content: "Hi"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "mongo down")
}

// ===================== ListReviews / GetReview =====================

func TestListReviewsHandler_Success(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)
	pageReq := entity.PageRequest{Page: 1, Size: 10, Sort: entity.SortOrder{Field: entity.SortByRating, Direction: entity.SortDesc}}
	page := entity.NewPage([]entity.Review{*sampleReview()}, pageReq, 11)

	svc.On("ListReviews", mock.Anything, "r-1", pageReq).Return(page, nil)

	w := doRequest(router, http.MethodGet, "/restaurants/r-1/reviews?page=1&size=10&sort=rating,desc", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var dto entity.PageDto[entity.ReviewDto]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Len(t, dto.Content, 1)
	assert.Equal(t, int64(11), dto.Pageable.TotalElements)
	assert.Equal(t, 2, dto.TotalPages)
	assert.True(t, dto.Last)
	assert.Contains(t, w.Body.String(), `"pageNumber":1`)
	assert.Contains(t, w.Body.String(), `"totalElements":11`)
}

func TestListReviewsHandler_DefaultsAndBadSort(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)
	defaults := entity.PageRequest{Page: 0, Size: entity.DefaultPageSize, Sort: entity.DefaultSort}

	svc.On("ListReviews", mock.Anything, "r-1", defaults).Return(entity.NewPage[entity.Review](nil, defaults, 0), nil)

	w := doRequest(router, http.MethodGet, "/restaurants/r-1/reviews", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/restaurants/r-1/reviews?sort=name,asc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/restaurants/r-1/reviews?size=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReviewHandler_FoundAndAbsent(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)
	review := sampleReview()

	svc.On("GetReview", mock.Anything, "r-1", review.ID.Hex()).Return(review, true, nil)
	svc.On("GetReview", mock.Anything, "r-1", "missing").Return(nil, false, nil)

	w := doRequest(router, http.MethodGet, "/restaurants/r-1/reviews/"+review.ID.Hex(), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/restaurants/r-1/reviews/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===================== UpdateReview / DeleteReview =====================

func TestUpdateReviewHandler_Success(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)
	review := sampleReview()
	review.Rating = 3

	svc.On("UpdateReview", mock.Anything, testUser, "r-1", review.ID.Hex(), entity.ReviewCreateUpdateRequest{Rating: 3, Content: "Ok"}).Return(review, nil)

	w := doRequest(router, http.MethodPut, "/restaurants/r-1/reviews/"+review.ID.Hex(), signToken(t, testUser, testSecret, time.Hour),
		entity.ReviewCreateUpdateRequestDto{Rating: 3, Content: "Ok"})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateReviewHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not author", err: service.ReviewNotAllowed("only the author can edit this review"), status: http.StatusForbidden},
		{name: "not found", err: service.ErrReviewNotFound, status: http.StatusNotFound},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReviewService)
			router := setupTestRouter(svc, nil)
			svc.On("UpdateReview", mock.Anything, testUser, "r-1", "rev-1", mock.Anything).Return(nil, tt.err)

			w := doRequest(router, http.MethodPut, "/restaurants/r-1/reviews/rev-1", signToken(t, testUser, testSecret, time.Hour),
				entity.ReviewCreateUpdateRequestDto{Rating: 3, Content: "Ok"})

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestDeleteReviewHandler_NoContent(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)

	svc.On("DeleteReview", mock.Anything, "r-1", "rev-1").Return(nil)

	w := doRequest(router, http.MethodDelete, "/restaurants/r-1/reviews/rev-1", signToken(t, testUser, testSecret, time.Hour), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestDeleteReviewHandler_AnyAuthenticatedUser(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)
	other := entity.User{ID: "user-999", Username: "mallory"}

	svc.On("DeleteReview", mock.Anything, "r-1", "rev-1").Return(nil)

	w := doRequest(router, http.MethodDelete, "/restaurants/r-1/reviews/rev-1", signToken(t, other, testSecret, time.Hour), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

// ===================== AuthMiddleware =====================

func TestAuthMiddleware_RejectsBadTokens(t *testing.T) {
	svc := new(MockReviewService)
	router := setupTestRouter(svc, nil)
	body := entity.ReviewCreateUpdateRequestDto{Rating: 5, Content: "x"}

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong secret", token: signToken(t, testUser, "other-secret", time.Hour)},
		{name: "expired", token: signToken(t, testUser, testSecret, -time.Minute)},
		{name: "garbage", token: "not.a.jwt"},
		{name: "missing user id", token: signToken(t, entity.User{Username: "ghost"}, testSecret, time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/restaurants/r-1/reviews", tt.token, body)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	svc := new(MockReviewService)
	blacklist := new(mocks.MockTokenBlacklist)
	router := setupTestRouter(svc, blacklist)
	token := signToken(t, testUser, testSecret, time.Hour)

	blacklist.On("IsBlacklisted", mock.Anything, token).Return(true, nil)

	w := doRequest(router, http.MethodDelete, "/restaurants/r-1/reviews/rev-1", token, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "DeleteReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthMiddleware_BlacklistUnavailable(t *testing.T) {
	svc := new(MockReviewService)
	blacklist := new(mocks.MockTokenBlacklist)
	router := setupTestRouter(svc, blacklist)
	token := signToken(t, testUser, testSecret, time.Hour)

	blacklist.On("IsBlacklisted", mock.Anything, token).Return(false, errors.New("redis down"))

	w := doRequest(router, http.MethodDelete, "/restaurants/r-1/reviews/rev-1", token, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthMiddleware_ValidTokenPassesBlacklist(t *testing.T) {
	svc := new(MockReviewService)
	blacklist := new(mocks.MockTokenBlacklist)
	router := setupTestRouter(svc, blacklist)
	token := signToken(t, testUser, testSecret, time.Hour)

	blacklist.On("IsBlacklisted", mock.Anything, token).Return(false, nil)
	svc.On("DeleteReview", mock.Anything, "r-1", "rev-1").Return(nil)

	w := doRequest(router, http.MethodDelete, "/restaurants/r-1/reviews/rev-1", token, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHealthAndPublicRoutesNeedNoToken(t *testing.T) {
	router := setupTestRouter(new(MockReviewService), nil)

	w := doRequest(router, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reviews-service")
}
