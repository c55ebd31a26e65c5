package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/category/model"
	"library-backend/internal/domains/category/repository"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
)

// Service - category use cases
type Service interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, req model.CategoryRequest) (*model.Category, error)
	Rename(ctx context.Context, id string, req model.CategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id string) error
}

// CatalogInvalidator drops cached catalog filter options
type CatalogInvalidator interface {
	InvalidateFilterOptions(ctx context.Context)
}

type categoryService struct {
	repo    repository.Repository
	catalog CatalogInvalidator
}

// NewService - catalog may be nil
func NewService(repo repository.Repository, catalog CatalogInvalidator) Service {
	return &categoryService{repo: repo, catalog: catalog}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

func (s *categoryService) Create(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	c, err := s.repo.Create(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	log.Info().Str("category_id", c.ID.String()).Str("name", c.Name).Msg("[CategoryService] Category created")
	s.invalidate(ctx)
	return c, nil
}

func (s *categoryService) Rename(ctx context.Context, id string, req model.CategoryRequest) (*model.Category, error) {
	if !utils.IsValidUUID(id) {
		return nil, model.ErrInvalidCategoryID
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	c, err := s.repo.Rename(ctx, id, req.Name)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if !utils.IsValidUUID(id) {
		return model.ErrInvalidCategoryID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("category_id", id).Msg("[CategoryService] Category deleted")
	s.invalidate(ctx)
	return nil
}

func (s *categoryService) invalidate(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.InvalidateFilterOptions(ctx)
	}
}
