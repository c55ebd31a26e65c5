package service

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"library-backend/internal/domains/report/model"
)

const (
	weightBorrows   = 0.5
	weightAvailable = 0.3
	weightRecency   = 0.2
)

// Recency maps a book's age in years to 1.0, 0.5 or 0.2
func Recency(age int) float64 {
	switch {
	case age <= 1:
		return 1
	case age <= 3:
		return 0.5
	default:
		return 0.2
	}
}

// Score is the weighted popularity of a book. borrow_count/100 is not capped,
// so very popular books can score above 1.
func Score(b model.BookStat, currentYear int) float64 {
	available := 0.0
	if b.Stock > 0 {
		available = 1
	}

	// a book without a year is scored as the oldest bucket
	recency := Recency(currentYear)
	if b.PublicationYear != nil {
		recency = Recency(currentYear - *b.PublicationYear)
	}

	return weightBorrows*float64(b.BorrowCount)/100 +
		weightAvailable*available +
		weightRecency*recency
}

// RankBooks scores the books, orders them by score (ties by title) and keeps the first n
func RankBooks(books []model.BookStat, currentYear, n int) []model.PopularBook {
	type scored struct {
		book  model.BookStat
		score float64
	}
	all := make([]scored, len(books))
	for i, b := range books {
		all[i] = scored{book: b, score: Score(b, currentYear)}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return strings.ToLower(all[i].book.Title) < strings.ToLower(all[j].book.Title)
	})

	if n >= 0 && len(all) > n {
		all = all[:n]
	}

	out := make([]model.PopularBook, len(all))
	for i, s := range all {
		out[i] = model.PopularBook{
			ID:          s.book.ID,
			Title:       s.book.Title,
			Author:      s.book.Author,
			Score:       decimal.NewFromFloat(s.score).StringFixed(2),
			BorrowCount: s.book.BorrowCount,
			Stock:       s.book.Stock,
		}
	}
	return out
}
