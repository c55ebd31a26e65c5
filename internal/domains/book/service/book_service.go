package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/internal/shared"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/metrics"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/cache"
)

const (
	FilterOptionsCacheKey = "books:filters"
	filterOptionsTTL      = 10 * time.Minute
)

// BookService - Implements ServiceInterface
type BookService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
}

// NewService - Constructor with DI. cache may be nil.
func NewService(repo repository.RepositoryInterface, cache cache.Cache) ServiceInterface {
	return &BookService{repo: repo, cache: cache}
}

func (s *BookService) ListBooks(ctx context.Context, req model.ListBooksRequest) (*model.ListBooksResponse, error) {
	page, limit := utils.NormalizePage(req.Page, req.Limit)

	books, total, err := s.repo.List(ctx, model.BookFilter{
		Search:          strings.TrimSpace(req.Search),
		Author:          strings.TrimSpace(req.Author),
		PublicationYear: req.PublicationYear,
		Category:        strings.TrimSpace(req.Category),
		IsActive:        req.IsActive,
		Offset:          utils.Offset(page, limit),
		Limit:           limit,
	})
	if err != nil {
		return nil, err
	}

	return &model.ListBooksResponse{
		Books:      books,
		Pagination: shared.NewPagination(total, page, limit),
	}, nil
}

// SearchBooks tries fulltext first and falls back to substring matching
func (s *BookService) SearchBooks(ctx context.Context, req model.SearchBooksRequest) ([]model.SearchResult, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Limit == 0 {
		req.Limit = model.DefaultSearchLimit
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	results, err := s.repo.SearchFulltext(ctx, req.Query, req.Limit)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return results, nil
	}

	log.Debug().Str("query", req.Query).Msg("[BookService] Fulltext empty, falling back to LIKE")
	return s.repo.SearchLike(ctx, req.Query, req.Limit)
}

func (s *BookService) GetBook(ctx context.Context, id string) (*model.Book, error) {
	if !utils.IsValidUUID(id) {
		return nil, model.ErrInvalidBookID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (string, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if err := req.Validate(); err != nil {
		return "", apperror.FromValidation(err)
	}

	id, err := s.repo.Create(ctx, req)
	if err != nil {
		return "", err
	}

	log.Info().Str("book_id", id.String()).Str("title", req.Title).Msg("[BookService] Book created")
	s.InvalidateFilterOptions(ctx)
	return id.String(), nil
}

func (s *BookService) UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (*model.Book, error) {
	if !utils.IsValidUUID(id) {
		return nil, model.ErrInvalidBookID
	}
	if req.IsEmpty() {
		return nil, model.ErrEmptyUpdate
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	s.InvalidateFilterOptions(ctx)
	return s.repo.GetByID(ctx, id)
}

// DeleteBook refuses while a copy is on loan
func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	if !utils.IsValidUUID(id) {
		return model.ErrInvalidBookID
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.repo.HasActiveBorrowings(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return model.ErrBookHasActiveLoans
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("book_id", id).Msg("[BookService] Book deleted")
	s.InvalidateFilterOptions(ctx)
	return nil
}

// GetFilterOptions is served from cache when possible; cache failures only cost a query
func (s *BookService) GetFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	if s.cache != nil {
		var cached model.FilterOptions
		found, err := s.cache.Get(ctx, FilterOptionsCacheKey, &cached)
		metrics.RecordCache("book_filters", found, err)
		if err != nil {
			log.Warn().Err(err).Msg("[BookService] Cache GET failed")
		}
		if found {
			return &cached, nil
		}
	}

	opts, err := s.repo.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, FilterOptionsCacheKey, opts, filterOptionsTTL); err != nil {
			log.Warn().Err(err).Msg("[BookService] Cache SET failed")
		}
	}
	return opts, nil
}

// InvalidateFilterOptions drops the cached dropdown values after a catalog write
func (s *BookService) InvalidateFilterOptions(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, FilterOptionsCacheKey); err != nil {
		log.Warn().Err(err).Str("key", FilterOptionsCacheKey).Msg("[BookService] Cache invalidation failed")
	}
}
