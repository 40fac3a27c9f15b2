package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw     string
		want    SortOrder
		wantErr bool
	}{
		{raw: "", want: DefaultSort},
		{raw: "datePosted,desc", want: SortOrder{Field: SortByDatePosted, Direction: SortDesc}},
		{raw: "datePosted,asc", want: SortOrder{Field: SortByDatePosted, Direction: SortAsc}},
		{raw: "rating,desc", want: SortOrder{Field: SortByRating, Direction: SortDesc}},
		{raw: "rating,ASC", want: SortOrder{Field: SortByRating, Direction: SortAsc}},
		{raw: "rating", want: SortOrder{Field: SortByRating, Direction: SortDesc}},
		{raw: "name,asc", wantErr: true},
		{raw: "rating,sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseSort(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSort)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPageRequest_Normalizes(t *testing.T) {
	req, err := NewPageRequest(-3, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 0, req.Page)
	assert.Equal(t, DefaultPageSize, req.Size)
	assert.Equal(t, DefaultSort, req.Sort)

	req, err = NewPageRequest(2, 1000, "rating,asc")
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, req.Size)
	assert.Equal(t, int64(200), req.Offset())

	req, err = NewPageRequest(math.MaxInt, 100, "")
	require.NoError(t, err)
	assert.Equal(t, int(math.MaxInt64/100), req.Page)
	assert.Positive(t, req.Offset())
	assert.True(t, NewPage[int](nil, req, 5).Last)
}

func TestNewPage_Metadata(t *testing.T) {
	req := PageRequest{Page: 1, Size: 2, Sort: DefaultSort}

	page := NewPage([]int{3, 4}, req, 5)

	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.False(t, page.First)
	assert.False(t, page.Last)

	last := NewPage([]int{5}, PageRequest{Page: 2, Size: 2}, 5)
	assert.True(t, last.Last)
}

func TestNewPage_Empty(t *testing.T) {
	page := NewPage[int](nil, PageRequest{Page: 0, Size: 20}, 0)

	assert.NotNil(t, page.Content)
	assert.Equal(t, 0, page.TotalPages)
	assert.True(t, page.First)
	assert.True(t, page.Last)
}
