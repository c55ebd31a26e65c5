package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"library-backend/internal/domains/borrowing/model"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/database"
)

// Repository - data access for borrowings
type Repository interface {
	Create(ctx context.Context, b model.NewBorrowing) (uuid.UUID, error)
	GetByID(ctx context.Context, id string) (*model.Borrowing, error)
	List(ctx context.Context, filter model.Filter) ([]model.Borrowing, int, error)
	// ApplyTransition locks the row, re-checks plan.From and applies the
	// stock delta and status change in one transaction
	ApplyTransition(ctx context.Context, id string, plan model.TransitionPlan) error
	Delete(ctx context.Context, id string) error

	MemberStatus(ctx context.Context, memberID string) (string, error)
	MemberUserID(ctx context.Context, memberID string) (string, error)
	BookAvailability(ctx context.Context, bookID string) (*model.BookAvailability, error)
}

const borrowingSelect = `
	SELECT b.id, b.book_id, b.member_id, b.borrow_date, b.due_date, b.return_date, b.status,
	       b.admin_notes, b.confirmed_at, b.created_at, b.updated_at,
	       bk.title, bk.author, bk.isbn,
	       u.name, u.email, m.member_code, m.nim, m.faculty, m.study_program, m.phone
	FROM borrowings b
	JOIN books bk ON bk.id = b.book_id
	JOIN members m ON m.id = b.member_id
	JOIN users u ON u.id = m.user_id`

// ErrMissing is returned by lookups of members or books that do not exist
var ErrMissing = errors.New("record not found")

type postgresRepository struct {
	pool database.Pool
}

func NewPostgresRepository(pool database.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, b model.NewBorrowing) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO borrowings (book_id, member_id, borrow_date, due_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		b.BookID, b.MemberID, b.BorrowDate, b.DueDate, string(model.StatusQueued),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert borrowing: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.Borrowing, error) {
	b, err := scanBorrowing(r.pool.QueryRow(ctx, borrowingSelect+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBorrowingNotFound
	}
	return b, err
}

func (r *postgresRepository) List(ctx context.Context, f model.Filter) ([]model.Borrowing, int, error) {
	w := &utils.Where{}
	if f.MemberID != "" {
		w.Eq("b.member_id", f.MemberID)
	}
	if f.Search != "" {
		w.ILikeAny(f.Search, "bk.title", "bk.author", "u.name", "m.member_code", "m.nim")
	}
	if f.Status != "" {
		w.Eq("b.status", string(f.Status))
	}

	var total int
	countQuery := `SELECT COUNT(*)
		FROM borrowings b
		JOIN books bk ON bk.id = b.book_id
		JOIN members m ON m.id = b.member_id
		JOIN users u ON u.id = m.user_id ` + w.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count borrowings: %w", err)
	}
	if total == 0 {
		return []model.Borrowing{}, 0, nil
	}

	query := fmt.Sprintf(`%s %s ORDER BY b.borrow_date DESC, b.created_at DESC LIMIT $%d OFFSET $%d`,
		borrowingSelect, w.SQL(), w.Next(), w.Next()+1)
	rows, err := r.pool.Query(ctx, query, append(w.Args(), f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list borrowings: %w", err)
	}
	defer rows.Close()

	out := make([]model.Borrowing, 0, f.Limit)
	for rows.Next() {
		b, err := scanBorrowing(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return out, total, nil
}

func (r *postgresRepository) ApplyTransition(ctx context.Context, id string, plan model.TransitionPlan) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var current string
		var bookID uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT status, book_id FROM borrowings WHERE id = $1 FOR UPDATE`, id,
		).Scan(&current, &bookID)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBorrowingNotFound
		}
		if err != nil {
			return fmt.Errorf("lock borrowing: %w", err)
		}
		// changed by a concurrent request since the plan was made
		if model.Status(current) != plan.From {
			return model.InvalidTransitionError(model.Status(current), plan.To)
		}

		switch {
		case plan.StockDelta < 0:
			tag, err := tx.Exec(ctx,
				`UPDATE books SET stock = stock - 1, updated_at = NOW() WHERE id = $1 AND stock >= 1`, bookID)
			if err != nil {
				return fmt.Errorf("take stock: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return model.ErrOutOfStock
			}
		case plan.StockDelta > 0:
			if _, err := tx.Exec(ctx,
				`UPDATE books SET stock = stock + 1, updated_at = NOW() WHERE id = $1`, bookID); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}

		w := &utils.Where{}
		sets := "status = " + w.Arg(string(plan.To)) + ", updated_at = NOW()"
		if plan.StampConfirmed {
			sets += ", confirmed_at = NOW()"
		}
		if plan.StampReturned {
			sets += ", return_date = NOW()"
		}
		if plan.AdminNotes != nil {
			sets += ", admin_notes = " + w.Arg(*plan.AdminNotes)
		}
		query := fmt.Sprintf(`UPDATE borrowings SET %s WHERE id = %s`, sets, w.Arg(id))
		if _, err := tx.Exec(ctx, query, w.Args()...); err != nil {
			return fmt.Errorf("update borrowing: %w", err)
		}
		return nil
	})
}

// Delete re-checks the status under lock; active loans are kept
func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM borrowings WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBorrowingNotFound
		}
		if err != nil {
			return fmt.Errorf("lock borrowing: %w", err)
		}
		if model.Status(current) == model.StatusActive {
			return model.ErrDeleteActive
		}
		if _, err := tx.Exec(ctx, `DELETE FROM borrowings WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete borrowing: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) MemberStatus(ctx context.Context, memberID string) (string, error) {
	return r.lookupString(ctx, `SELECT status FROM members WHERE id = $1`, memberID)
}

func (r *postgresRepository) MemberUserID(ctx context.Context, memberID string) (string, error) {
	return r.lookupString(ctx, `SELECT user_id::text FROM members WHERE id = $1`, memberID)
}

func (r *postgresRepository) BookAvailability(ctx context.Context, bookID string) (*model.BookAvailability, error) {
	var a model.BookAvailability
	err := r.pool.QueryRow(ctx, `SELECT is_active, stock FROM books WHERE id = $1`, bookID).Scan(&a.IsActive, &a.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMissing
	}
	if err != nil {
		return nil, fmt.Errorf("book availability: %w", err)
	}
	return &a, nil
}

func (r *postgresRepository) lookupString(ctx context.Context, query, arg string) (string, error) {
	var v string
	err := r.pool.QueryRow(ctx, query, arg).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrMissing
	}
	if err != nil {
		return "", fmt.Errorf("lookup: %w", err)
	}
	return v, nil
}

func scanBorrowing(row pgx.Row) (*model.Borrowing, error) {
	var b model.Borrowing
	var status string
	err := row.Scan(
		&b.ID, &b.BookID, &b.MemberID, &b.BorrowDate, &b.DueDate, &b.ReturnDate, &status,
		&b.AdminNotes, &b.ConfirmedAt, &b.CreatedAt, &b.UpdatedAt,
		&b.BookTitle, &b.BookAuthor, &b.BookISBN,
		&b.MemberName, &b.MemberEmail, &b.MemberCode, &b.NIM, &b.Faculty, &b.StudyProgram, &b.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan borrowing: %w", err)
	}
	b.Status = model.Status(status)
	return &b, nil
}
