package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"library-backend/internal/domains/book/model"
	infradb "library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/database"
)

const bookColumns = `
	b.id, b.title, b.author, b.isbn, b.publisher, b.publication_year, b.stock,
	b.description, b.cover_url, b.is_active, b.created_at, b.updated_at,
	COALESCE(array_agg(DISTINCT bc.name) FILTER (WHERE bc.name IS NOT NULL), '{}')::text[] AS categories`

const bookJoins = `
	FROM books b
	LEFT JOIN book_category_mappings bcm ON bcm.book_id = b.id
	LEFT JOIN book_categories bc ON bc.id = bcm.category_id`

const searchColumns = `b.id, b.title, b.author, b.isbn, b.publisher, b.publication_year, b.stock, b.cover_url`

type postgresRepository struct {
	pool database.Pool
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool database.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// ========================= LIST =========================

func (r *postgresRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	w := buildWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM books b " + w.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	if total == 0 {
		return []model.Book{}, 0, nil
	}

	args := w.Args()
	query := fmt.Sprintf(`SELECT %s %s %s
		GROUP BY b.id
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d`, bookColumns, bookJoins, w.SQL(), w.Next(), w.Next()+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, filter.Limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return books, total, nil
}

// buildWhere - category is matched with EXISTS so the aggregated list stays complete
func buildWhere(f model.BookFilter) *utils.Where {
	w := &utils.Where{}
	if f.Search != "" {
		w.ILikeAny(f.Search, "b.title", "b.author", "b.isbn")
	}
	if f.Author != "" {
		w.Eq("b.author", f.Author)
	}
	if f.PublicationYear != nil {
		w.Eq("b.publication_year", *f.PublicationYear)
	}
	if f.Category != "" {
		w.Add(`EXISTS (SELECT 1 FROM book_category_mappings m
			JOIN book_categories c ON c.id = m.category_id
			WHERE m.book_id = b.id AND c.name = ` + w.Arg(f.Category) + `)`)
	}
	if f.IsActive != nil {
		w.Eq("b.is_active", *f.IsActive)
	}
	return w
}

// ========================= SEARCH =========================

// SearchFulltext uses the GIN index over title, author and description
func (r *postgresRepository) SearchFulltext(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	doc := infradb.BookSearchDocument("b")
	sql := fmt.Sprintf(`
		SELECT %s
		FROM books b
		WHERE b.is_active = TRUE AND %s @@ plainto_tsquery('simple', $1)
		ORDER BY ts_rank(%s, plainto_tsquery('simple', $1)) DESC, b.title
		LIMIT $2`, searchColumns, doc, doc)

	rows, err := r.pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return collectSearch(rows)
}

// SearchLike is the substring fallback when fulltext finds nothing
func (r *postgresRepository) SearchLike(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	w := &utils.Where{}
	w.Add("b.is_active = TRUE")
	w.ILikeAny(query, "b.title", "b.author", "b.isbn", "b.publisher", "b.description")
	sql := fmt.Sprintf(`SELECT %s FROM books b %s ORDER BY b.title LIMIT $%d`, searchColumns, w.SQL(), w.Next())
	args := append(w.Args(), limit)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return collectSearch(rows)
}

func collectSearch(rows pgx.Rows) ([]model.SearchResult, error) {
	defer rows.Close()

	results := []model.SearchResult{}
	for rows.Next() {
		var s model.SearchResult
		if err := rows.Scan(&s.ID, &s.Title, &s.Author, &s.ISBN, &s.Publisher,
			&s.PublicationYear, &s.Stock, &s.CoverURL); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

// ========================= CRUD =========================

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE b.id = $1 GROUP BY b.id`, bookColumns, bookJoins)
	b, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *postgresRepository) Create(ctx context.Context, req model.CreateBookRequest) (uuid.UUID, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (uuid.UUID, error) {
		var id uuid.UUID
		err := tx.QueryRow(ctx, `
			INSERT INTO books (title, author, isbn, publisher, publication_year, stock, description, cover_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			req.Title, req.Author, blankToNil(req.ISBN), req.Publisher, req.PublicationYear,
			utils.Deref(req.Stock), req.Description, req.CoverURL,
		).Scan(&id)
		if err != nil {
			return uuid.Nil, translateWriteError(err)
		}

		if err := setCategories(ctx, tx, id.String(), req.Categories); err != nil {
			return uuid.Nil, err
		}
		return id, nil
	})
}

// Update writes only the fields present in req
func (r *postgresRepository) Update(ctx context.Context, id string, req model.UpdateBookRequest) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		w := &utils.Where{}
		sets := []string{"updated_at = NOW()"}
		set := func(col string, v any) { sets = append(sets, col+" = "+w.Arg(v)) }

		if req.Title != nil {
			set("title", *req.Title)
		}
		if req.Author != nil {
			set("author", *req.Author)
		}
		if req.ISBN != nil {
			set("isbn", blankToNil(req.ISBN))
		}
		if req.Publisher != nil {
			set("publisher", *req.Publisher)
		}
		if req.PublicationYear != nil {
			set("publication_year", *req.PublicationYear)
		}
		if req.Stock != nil {
			set("stock", *req.Stock)
		}
		if req.Description != nil {
			set("description", *req.Description)
		}
		if req.CoverURL != nil {
			set("cover_url", *req.CoverURL)
		}
		if req.IsActive != nil {
			set("is_active", *req.IsActive)
		}

		query := fmt.Sprintf("UPDATE books SET %s WHERE id = %s", strings.Join(sets, ", "), w.Arg(id))
		tag, err := tx.Exec(ctx, query, w.Args()...)
		if err != nil {
			return translateWriteError(err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrBookNotFound
		}

		if req.Categories != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM book_category_mappings WHERE book_id = $1`, id); err != nil {
				return fmt.Errorf("clear categories: %w", err)
			}
			return setCategories(ctx, tx, id, *req.Categories)
		}
		return nil
	})
}

// Delete removes the category mappings and then the book
func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM book_category_mappings WHERE book_id = $1`, id); err != nil {
			return fmt.Errorf("delete mappings: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return model.ErrBookHasHistory
			}
			return fmt.Errorf("delete book: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrBookNotFound
		}
		return nil
	})
}

func (r *postgresRepository) HasActiveBorrowings(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM borrowings WHERE book_id = $1 AND status = 'dipinjam')`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active borrowings: %w", err)
	}
	return exists, nil
}

// ========================= FILTER OPTIONS =========================

func (r *postgresRepository) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	opts := &model.FilterOptions{}
	var err error

	if opts.Authors, err = collectStrings(ctx, r.pool,
		`SELECT DISTINCT author FROM books ORDER BY author`); err != nil {
		return nil, err
	}
	if opts.Categories, err = collectStrings(ctx, r.pool,
		`SELECT name FROM book_categories ORDER BY name`); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT publication_year FROM books WHERE publication_year IS NOT NULL ORDER BY publication_year DESC`)
	if err != nil {
		return nil, fmt.Errorf("query years: %w", err)
	}
	opts.Years, err = pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("collect years: %w", err)
	}
	return opts, nil
}

// ========================= HELPERS =========================

func setCategories(ctx context.Context, tx pgx.Tx, bookID string, names []string) error {
	names = model.NormalizeCategories(names)
	if len(names) == 0 {
		return nil
	}
	// unknown names are skipped
	_, err := tx.Exec(ctx, `
		INSERT INTO book_category_mappings (book_id, category_id)
		SELECT $1, id FROM book_categories WHERE name = ANY($2)
		ON CONFLICT DO NOTHING`, bookID, names)
	if err != nil {
		return fmt.Errorf("set categories: %w", err)
	}
	return nil
}

func collectStrings(ctx context.Context, db database.DBTX, query string) ([]string, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect options: %w", err)
	}
	return out, nil
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Publisher, &b.PublicationYear, &b.Stock,
		&b.Description, &b.CoverURL, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
		&b.Categories,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}
	return &b, nil
}

func translateWriteError(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return model.ErrISBNAlreadyExists
	case database.IsCheckViolation(err):
		return fmt.Errorf("book constraint violated (%s): %w", database.ConstraintName(err), err)
	default:
		return fmt.Errorf("write book: %w", err)
	}
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
