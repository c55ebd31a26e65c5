package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Book - catalog entity
type Book struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Author          string         `json:"author" db:"author"`
	ISBN            *string        `json:"isbn" db:"isbn"`
	Publisher       *string        `json:"publisher" db:"publisher"`
	PublicationYear *int           `json:"publication_year" db:"publication_year"`
	Stock           int            `json:"stock" db:"stock"`
	Description     *string        `json:"description" db:"description"`
	CoverURL        *string        `json:"cover_url" db:"cover_url"`
	IsActive        bool           `json:"is_active" db:"is_active"`
	Categories      pq.StringArray `json:"categories" db:"categories"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// BookFilter - filter object for the repository
type BookFilter struct {
	Search          string
	Author          string
	PublicationYear *int
	Category        string
	IsActive        *bool
	Offset          int
	Limit           int
}

// FilterOptions - distinct values for the catalog filter dropdowns
type FilterOptions struct {
	Authors    []string `json:"authors"`
	Years      []int    `json:"years"`
	Categories []string `json:"categories"`
}

// SearchResult - row of the quick search
type SearchResult struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            *string   `json:"isbn"`
	Publisher       *string   `json:"publisher"`
	PublicationYear *int      `json:"publication_year"`
	Stock           int       `json:"stock"`
	CoverURL        *string   `json:"cover_url"`
}
