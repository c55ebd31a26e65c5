package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-backend/internal/shared/apperror"
)

// Category - book category, many-to-many with books
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	BookCount int       `json:"book_count" db:"book_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CategoryRequest - body of POST /categories and PUT /categories/:id
type CategoryRequest struct {
	Name string `json:"name"`
}

func (r *CategoryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r CategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 100),
		),
	)
}

var (
	ErrCategoryNotFound  = apperror.NotFound("Category not found")
	ErrInvalidCategoryID = apperror.Validation("Invalid category id")
	ErrDuplicateName     = apperror.Conflict("Category name already exists")
)
