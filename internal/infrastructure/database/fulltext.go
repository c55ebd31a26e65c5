package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	pkgdb "library-backend/pkg/database"
)

// BookSearchIndex is the GIN index backing fulltext book search
const BookSearchIndex = "idx_books_fulltext"

// BookSearchDocument returns the tsvector expression the index is built on.
// alias qualifies the columns ("" for none); the planner only uses the index
// when queries repeat this exact expression.
func BookSearchDocument(alias string) string {
	p := ""
	if alias != "" {
		p = alias + "."
	}
	return fmt.Sprintf(
		"to_tsvector('simple', coalesce(%[1]stitle, '') || ' ' || coalesce(%[1]sauthor, '') || ' ' || coalesce(%[1]sdescription, ''))",
		p,
	)
}

// EnsureSearchIndex creates the fulltext index on books when it is missing.
// Returns true when the index had to be created.
func EnsureSearchIndex(ctx context.Context, db pkgdb.DBTX) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE tablename = 'books' AND indexname = $1)`,
		BookSearchIndex,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check search index: %w", err)
	}
	if exists {
		log.Info().Str("index", BookSearchIndex).Msg("[DATABASE] Fulltext index present")
		return false, nil
	}

	stmt := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON books USING GIN (%s)`, BookSearchIndex, BookSearchDocument(""))
	if _, err := db.Exec(ctx, stmt); err != nil {
		return false, fmt.Errorf("create search index: %w", err)
	}

	log.Info().Str("index", BookSearchIndex).Msg("[DATABASE] Fulltext index created")
	return true, nil
}
