package mapper

import (
	"testing"
	"time"

	"restaurantreviews/reviews-service/internal/app/reviews/entity"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToReviewCreateUpdateRequest(t *testing.T) {
	m := NewReviewMapper()

	req := m.ToReviewCreateUpdateRequest(entity.ReviewCreateUpdateRequestDto{
		Content:  "Great",
		Rating:   5,
		PhotoIDs: []string{"p1", "p2"},
	})

	assert.Equal(t, 5, req.Rating)
	assert.Equal(t, "Great", req.Content)
	assert.Equal(t, []string{"p1", "p2"}, req.PhotoIDs)
}

func TestToReviewCreateUpdateRequest_DoesNotShareSlices(t *testing.T) {
	m := NewReviewMapper()
	dto := entity.ReviewCreateUpdateRequestDto{Content: "x", Rating: 3, PhotoIDs: []string{"p1"}}

	req := m.ToReviewCreateUpdateRequest(dto)
	dto.PhotoIDs[0] = "changed"

	assert.Equal(t, []string{"p1"}, req.PhotoIDs)
	assert.Nil(t, m.ToReviewCreateUpdateRequest(entity.ReviewCreateUpdateRequestDto{Content: "x"}).PhotoIDs)
}

func TestToDto(t *testing.T) {
	m := NewReviewMapper()
	posted := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	edited := posted.Add(time.Hour)
	review := &entity.Review{
		ID:           primitive.NewObjectID(),
		RestaurantID: "r-1",
		WrittenBy:    entity.UserSummary{ID: "u-1", Username: "alice"},
		Rating:       4,
		Content:      "Nice pasta",
		Photos: []entity.Photo{
			{URL: "https://cdn/p1.jpg", Caption: "pasta", UploadDate: posted},
		},
		DatePosted: posted,
		LastEdited: edited,
	}

	dto := m.ToDto(review)

	assert.Equal(t, review.ID.Hex(), dto.ID)
	assert.Equal(t, 4, dto.Rating)
	assert.Equal(t, "Nice pasta", dto.Content)
	assert.Equal(t, posted, dto.DatePosted)
	assert.Equal(t, edited, dto.LastEdited)
	assert.Equal(t, entity.UserSummaryDto{ID: "u-1", Username: "alice"}, dto.WrittenBy)
	require.Len(t, dto.Photos, 1)
	assert.Equal(t, "https://cdn/p1.jpg", dto.Photos[0].URL)
	assert.Equal(t, "pasta", dto.Photos[0].Caption)
}

func TestToDto_WholeStructure(t *testing.T) {
	m := NewReviewMapper()
	id := primitive.NewObjectID()
	posted := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

	actual := m.ToDto(&entity.Review{
		ID:           id,
		RestaurantID: "r-1",
		WrittenBy:    entity.UserSummary{ID: "u-2", Username: "bob"},
		Rating:       2,
		Content:      "Cold soup",
		DatePosted:   posted,
		LastEdited:   posted,
	})

	expected := entity.ReviewDto{
		ID:         id.Hex(),
		Content:    "Cold soup",
		Rating:     2,
		DatePosted: posted,
		LastEdited: posted,
		WrittenBy:  entity.UserSummaryDto{ID: "u-2", Username: "bob"},
	}
	if diff := cmp.Diff(expected, actual, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ReviewDto mismatch (-want +got):\n%s", diff)
	}
}

func TestToDto_NilReview(t *testing.T) {
	m := NewReviewMapper()

	assert.Equal(t, entity.ReviewDto{}, m.ToDto(nil))
}

func TestRoundTrip_PreservesRatingAndContent(t *testing.T) {
	m := NewReviewMapper()

	for rating := 1; rating <= 5; rating++ {
		req := m.ToReviewCreateUpdateRequest(entity.ReviewCreateUpdateRequestDto{Rating: rating, Content: "text"})
		dto := m.ToDto(&entity.Review{ID: primitive.NewObjectID(), Rating: req.Rating, Content: req.Content})

		assert.Equal(t, rating, dto.Rating)
		assert.Equal(t, "text", dto.Content)
	}
}

func TestToPageDto(t *testing.T) {
	m := NewReviewMapper()
	page := entity.NewPage(
		[]entity.Review{{ID: primitive.NewObjectID(), Rating: 5}, {ID: primitive.NewObjectID(), Rating: 3}},
		entity.PageRequest{Page: 0, Size: 2, Sort: entity.DefaultSort},
		3,
	)

	dto := m.ToPageDto(page)

	require.Len(t, dto.Content, 2)
	assert.Equal(t, 5, dto.Content[0].Rating)
	assert.Equal(t, int64(3), dto.Pageable.TotalElements)
	assert.Equal(t, 2, dto.TotalPages)
	assert.True(t, dto.First)
	assert.False(t, dto.Last)
}
