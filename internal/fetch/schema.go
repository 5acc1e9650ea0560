package fetch

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/abelbrown/storefront/internal/model"
)

// Wire types use pointers so a missing field is distinguishable from a zero
// value; `required` then rejects absent fields, like the API schema demands.

type ratingDTO struct {
	Rate  *float64 `json:"rate" validate:"required,gte=0,lte=5"`
	Count *int     `json:"count" validate:"required,gte=0"`
}

type productDTO struct {
	ID          *int       `json:"id" validate:"required"`
	Title       *string    `json:"title" validate:"required"`
	Price       *float64   `json:"price" validate:"required,gte=0"`
	Description *string    `json:"description" validate:"required"`
	Category    *string    `json:"category" validate:"required"`
	Image       *string    `json:"image" validate:"required"`
	Rating      *ratingDTO `json:"rating" validate:"required"`
}

func (d productDTO) toModel() model.Product {
	return model.Product{
		ID:          *d.ID,
		Title:       *d.Title,
		Price:       *d.Price,
		Description: *d.Description,
		Category:    *d.Category,
		Image:       *d.Image,
		Rating: model.Rating{
			Rate:  *d.Rating.Rate,
			Count: *d.Rating.Count,
		},
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schemaValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// parseProducts decodes and validates a product list. The result is all or
// nothing: one bad element rejects the whole payload.
func parseProducts(body []byte) ([]model.Product, error) {
	var dtos []*productDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, &APIError{Message: msgInvalidData, Err: err}
	}
	if dtos == nil {
		return nil, &APIError{Message: msgInvalidData, Err: fmt.Errorf("expected an array of products")}
	}

	v := schemaValidator()
	products := make([]model.Product, 0, len(dtos))
	for i, d := range dtos {
		if d == nil {
			return nil, &APIError{Message: msgInvalidData, Err: fmt.Errorf("product %d: null", i)}
		}
		if err := v.Struct(d); err != nil {
			return nil, &APIError{Message: msgInvalidData, Err: fmt.Errorf("product %d: %w", i, err)}
		}
		products = append(products, d.toModel())
	}
	return products, nil
}

// parseCategories decodes a category list; every element must be a string.
func parseCategories(body []byte) ([]model.Category, error) {
	var raw []*string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &APIError{Message: msgInvalidData, Err: err}
	}
	if raw == nil {
		return nil, &APIError{Message: msgInvalidData, Err: fmt.Errorf("expected an array of categories")}
	}

	categories := make([]model.Category, 0, len(raw))
	for i, c := range raw {
		if c == nil {
			return nil, &APIError{Message: msgInvalidData, Err: fmt.Errorf("category %d: null", i)}
		}
		categories = append(categories, *c)
	}
	return categories, nil
}
