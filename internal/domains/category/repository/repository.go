package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"library-backend/internal/domains/category/model"
	"library-backend/pkg/database"
)

// Repository - data access for categories
type Repository interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	Create(ctx context.Context, name string) (*model.Category, error)
	Rename(ctx context.Context, id, name string) (*model.Category, error)
	Delete(ctx context.Context, id string) error
}

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, COUNT(m.book_id) AS book_count, c.created_at
		FROM book_categories c
		LEFT JOIN book_category_mappings m ON m.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Category])
	if err != nil {
		return nil, fmt.Errorf("collect categories: %w", err)
	}
	return categories, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(ctx, `
		SELECT c.id, c.name, COUNT(m.book_id), c.created_at
		FROM book_categories c
		LEFT JOIN book_category_mappings m ON m.category_id = c.id
		WHERE c.id = $1
		GROUP BY c.id`, id,
	).Scan(&c.ID, &c.Name, &c.BookCount, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *postgresRepository) Create(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(ctx,
		`INSERT INTO book_categories (name) VALUES ($1) RETURNING id, name, created_at`, name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *postgresRepository) Rename(ctx context.Context, id, name string) (*model.Category, error) {
	tag, err := r.db.Exec(ctx, `UPDATE book_categories SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return nil, translate(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, model.ErrCategoryNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete also drops the book mappings through ON DELETE CASCADE
func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM book_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func translate(err error) error {
	if database.IsUniqueViolation(err) {
		return model.ErrDuplicateName
	}
	return fmt.Errorf("write category: %w", err)
}
