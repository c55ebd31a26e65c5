package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

// RepositoryInterface - data access for books
type RepositoryInterface interface {
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)
	SearchFulltext(ctx context.Context, query string, limit int) ([]model.SearchResult, error)
	SearchLike(ctx context.Context, query string, limit int) ([]model.SearchResult, error)
	GetByID(ctx context.Context, id string) (*model.Book, error)
	Create(ctx context.Context, req model.CreateBookRequest) (uuid.UUID, error)
	Update(ctx context.Context, id string, req model.UpdateBookRequest) error
	Delete(ctx context.Context, id string) error
	HasActiveBorrowings(ctx context.Context, id string) (bool, error)
	FilterOptions(ctx context.Context) (*model.FilterOptions, error)
}
