package model

import (
	"github.com/google/uuid"

	"library-backend/internal/shared/apperror"
)

// PopularLimit - number of books shown on the dashboard
const PopularLimit = 5

// StatusAll selects every borrowing status in reports
const StatusAll = "all"

// BookStat - input row for the scorer
type BookStat struct {
	ID              uuid.UUID `db:"id"`
	Title           string    `db:"title"`
	Author          string    `db:"author"`
	PublicationYear *int      `db:"publication_year"`
	Stock           int       `db:"stock"`
	BorrowCount     int       `db:"borrow_count"`
}

// PopularBook - scored book as shown on the dashboard
type PopularBook struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Score       string    `json:"score"` // two decimals, e.g. "0.75"
	BorrowCount int       `json:"borrow_count"`
	Stock       int       `json:"stock"`
}

// Totals - dashboard counters
type Totals struct {
	TotalBooks    int `json:"total_books"`
	TotalMembers  int `json:"total_members"`
	BorrowedBooks int `json:"borrowed_books"`
	QueuedBorrows int `json:"queued_borrows"`
}

// Dashboard - GET /admin/dashboard
type Dashboard struct {
	Totals
	PopularBooks []PopularBook `json:"popular_books"`
}

// BorrowingReportRequest - GET /reports/borrowings[/export]
type BorrowingReportRequest struct {
	Search string
	Status string // "all" or a borrowing status
	Page   int
	Limit  int
}

var ErrExportTooLarge = apperror.Validation("Report is too large to export, narrow the filter")
