package service

import (
	"context"

	"library-backend/internal/domains/book/model"
)

// ServiceInterface - business logic for the catalog
type ServiceInterface interface {
	ListBooks(ctx context.Context, req model.ListBooksRequest) (*model.ListBooksResponse, error)
	SearchBooks(ctx context.Context, req model.SearchBooksRequest) ([]model.SearchResult, error)
	GetBook(ctx context.Context, id string) (*model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (string, error)
	UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id string) error
	GetFilterOptions(ctx context.Context) (*model.FilterOptions, error)
	InvalidateFilterOptions(ctx context.Context)
}
