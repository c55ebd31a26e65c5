package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"library-backend/internal/shared"
)

// ============ REQUESTS ============

// ListBooksRequest - GET /books query
type ListBooksRequest struct {
	Search          string
	Author          string
	PublicationYear *int
	Category        string
	IsActive        *bool
	Page            int
	Limit           int
}

// SearchBooksRequest - GET /books/search query
type SearchBooksRequest struct {
	Query string
	Limit int
}

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

func (r SearchBooksRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query,
			validation.Required.Error("search query is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Limit, validation.Min(1), validation.Max(MaxSearchLimit)),
	)
}

// CreateBookRequest - POST /books
type CreateBookRequest struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	ISBN            *string  `json:"isbn"`
	Publisher       *string  `json:"publisher"`
	PublicationYear *int     `json:"publication_year"`
	Stock           *int     `json:"stock"`
	Description     *string  `json:"description"`
	CoverURL        *string  `json:"cover_url"`
	Categories      []string `json:"categories"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Stock,
			validation.NotNil.Error("stock is required"),
			validation.Min(0).Error("stock must not be negative"),
		),
		validation.Field(&r.ISBN, validation.NilOrNotEmpty, validation.Length(10, 20)),
		validation.Field(&r.PublicationYear, yearRules()...),
		validation.Field(&r.CoverURL, validation.NilOrNotEmpty, is.URL),
	)
}

// UpdateBookRequest - PUT /books/:id, only non-nil fields are written.
// Categories replace the current set when non-nil.
type UpdateBookRequest struct {
	Title           *string   `json:"title"`
	Author          *string   `json:"author"`
	ISBN            *string   `json:"isbn"`
	Publisher       *string   `json:"publisher"`
	PublicationYear *int      `json:"publication_year"`
	Stock           *int      `json:"stock"`
	Description     *string   `json:"description"`
	CoverURL        *string   `json:"cover_url"`
	IsActive        *bool     `json:"is_active"`
	Categories      *[]string `json:"categories"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title cannot be empty"), validation.Length(1, 255)),
		validation.Field(&r.Author, validation.NilOrNotEmpty.Error("author cannot be empty"), validation.Length(1, 255)),
		validation.Field(&r.Stock, validation.Min(0).Error("stock must not be negative")),
		validation.Field(&r.ISBN, validation.NilOrNotEmpty, validation.Length(10, 20)),
		validation.Field(&r.PublicationYear, yearRules()...),
		validation.Field(&r.CoverURL, validation.NilOrNotEmpty, is.URL),
	)
}

// IsEmpty reports whether the patch carries no field at all
func (r UpdateBookRequest) IsEmpty() bool {
	return r.Title == nil && r.Author == nil && r.ISBN == nil && r.Publisher == nil &&
		r.PublicationYear == nil && r.Stock == nil && r.Description == nil &&
		r.CoverURL == nil && r.IsActive == nil && r.Categories == nil
}

func yearRules() []validation.Rule {
	return []validation.Rule{
		validation.Min(1000).Error("publication_year is out of range"),
		validation.Max(time.Now().Year() + 1).Error("publication_year is out of range"),
	}
}

// NormalizeCategories trims names and drops blanks and duplicates, keeping order
func NormalizeCategories(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ============ RESPONSES ============

// ListBooksResponse - payload of GET /books
type ListBooksResponse struct {
	Books      []Book            `json:"books"`
	Pagination shared.Pagination `json:"pagination"`
}

// CreateBookResponse - payload of POST /books
type CreateBookResponse struct {
	ID string `json:"id"`
}
