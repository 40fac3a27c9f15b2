package entity

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrInvalidSort = errors.New("invalid sort parameter")

type SortField string

const (
	SortByDatePosted SortField = "datePosted"
	SortByRating     SortField = "rating"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type SortOrder struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSort - сначала свежие отзывы
var DefaultSort = SortOrder{Field: SortByDatePosted, Direction: SortDesc}

func (s SortOrder) String() string {
	return string(s.Field) + "," + string(s.Direction)
}

// ParseSort разбирает значение вида "rating,desc"; направление по умолчанию desc
func ParseSort(raw string) (SortOrder, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort, nil
	}

	field, dir, _ := strings.Cut(raw, ",")
	order := SortOrder{
		Field:     SortField(strings.TrimSpace(field)),
		Direction: SortDirection(strings.ToLower(strings.TrimSpace(dir))),
	}
	if order.Direction == "" {
		order.Direction = SortDesc
	}

	switch order.Field {
	case SortByDatePosted, SortByRating:
	default:
		return SortOrder{}, fmt.Errorf("%w: unknown field %q", ErrInvalidSort, field)
	}
	switch order.Direction {
	case SortAsc, SortDesc:
	default:
		return SortOrder{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidSort, dir)
	}

	return order, nil
}

// PageRequest - параметры пагинации; Page начинается с 0
type PageRequest struct {
	Page int
	Size int
	Sort SortOrder
}

// NewPageRequest нормализует номер и размер страницы и разбирает сортировку
func NewPageRequest(page, size int, sort string) (PageRequest, error) {
	order, err := ParseSort(sort)
	if err != nil {
		return PageRequest{}, err
	}

	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	// Смещение page*size должно помещаться в int64, дальше страницы все равно пустые
	if maxPage := math.MaxInt64 / int64(size); int64(page) > maxPage {
		page = int(maxPage)
	}

	return PageRequest{Page: page, Size: size, Sort: order}, nil
}

func (p PageRequest) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}

// Page - срез результатов с метаданными пагинации
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
	First         bool
	Last          bool
}

func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return &Page[T]{
		Content:       content,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page >= totalPages-1,
	}
}
