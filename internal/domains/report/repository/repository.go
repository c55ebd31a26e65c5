package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	borrowingModel "library-backend/internal/domains/borrowing/model"
	"library-backend/internal/domains/report/model"
	"library-backend/pkg/database"
)

// Repository - read-only aggregates for the dashboard
type Repository interface {
	Totals(ctx context.Context) (model.Totals, error)
	BookStats(ctx context.Context) ([]model.BookStat, error)
}

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Totals(ctx context.Context) (model.Totals, error) {
	var t model.Totals
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM books),
			(SELECT COUNT(*) FROM members),
			(SELECT COUNT(*) FROM borrowings WHERE status = $1),
			(SELECT COUNT(*) FROM borrowings WHERE status = $2)`,
		string(borrowingModel.StatusActive), string(borrowingModel.StatusQueued),
	).Scan(&t.TotalBooks, &t.TotalMembers, &t.BorrowedBooks, &t.QueuedBorrows)
	if err != nil {
		return model.Totals{}, fmt.Errorf("dashboard totals: %w", err)
	}
	return t, nil
}

// BookStats returns every book with its all-time borrowing count
func (r *postgresRepository) BookStats(ctx context.Context) ([]model.BookStat, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.title, b.author, b.publication_year, b.stock,
		       COUNT(br.id)::int AS borrow_count
		FROM books b
		LEFT JOIN borrowings br ON br.book_id = b.id
		GROUP BY b.id`)
	if err != nil {
		return nil, fmt.Errorf("book stats: %w", err)
	}
	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BookStat])
	if err != nil {
		return nil, fmt.Errorf("collect book stats: %w", err)
	}
	return stats, nil
}
