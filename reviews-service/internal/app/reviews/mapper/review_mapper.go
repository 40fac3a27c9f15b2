package mapper

import (
	"fmt"
	"slices"

	"restaurantreviews/reviews-service/internal/app/reviews/entity"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewMapper преобразует отзывы между API-представлением и доменной моделью
type ReviewMapper interface {
	ToReviewCreateUpdateRequest(dto entity.ReviewCreateUpdateRequestDto) entity.ReviewCreateUpdateRequest
	ToDto(review *entity.Review) entity.ReviewDto
	ToPageDto(page *entity.Page[entity.Review]) entity.PageDto[entity.ReviewDto]
}

type reviewMapper struct {
	opts copier.Option
}

func NewReviewMapper() ReviewMapper {
	return &reviewMapper{
		opts: copier.Option{
			Converters: []copier.TypeConverter{
				{
					SrcType: primitive.ObjectID{},
					DstType: copier.String,
					Fn: func(src interface{}) (interface{}, error) {
						oid, ok := src.(primitive.ObjectID)
						if !ok {
							return nil, fmt.Errorf("unexpected id type %T", src)
						}
						return oid.Hex(), nil
					},
				},
			},
		},
	}
}

// ToReviewCreateUpdateRequest копирует совпадающие по имени поля; лишние поля игнорируются
func (m *reviewMapper) ToReviewCreateUpdateRequest(dto entity.ReviewCreateUpdateRequestDto) entity.ReviewCreateUpdateRequest {
	var req entity.ReviewCreateUpdateRequest
	m.copy(&req, &dto)
	// copier без DeepCopy копирует срез по ссылке
	req.PhotoIDs = slices.Clone(dto.PhotoIDs)
	return req
}

func (m *reviewMapper) ToDto(review *entity.Review) entity.ReviewDto {
	var dto entity.ReviewDto
	if review == nil {
		return dto
	}
	m.copy(&dto, review)
	return dto
}

func (m *reviewMapper) ToPageDto(page *entity.Page[entity.Review]) entity.PageDto[entity.ReviewDto] {
	content := make([]entity.ReviewDto, 0, len(page.Content))
	for i := range page.Content {
		content = append(content, m.ToDto(&page.Content[i]))
	}

	return entity.PageDto[entity.ReviewDto]{
		Content: content,
		Pageable: entity.PageMetadataDto{
			PageNumber:    page.Number,
			Size:          page.Size,
			TotalElements: page.TotalElements,
			TotalPages:    page.TotalPages,
		},
		TotalPages: page.TotalPages,
		First:      page.First,
		Last:       page.Last,
	}
}

// copy падает только при неверных типах аргументов, то есть при ошибке программиста
func (m *reviewMapper) copy(to, from interface{}) {
	if err := copier.CopyWithOption(to, from, m.opts); err != nil {
		panic(fmt.Sprintf("review mapper: %v", err))
	}
}
