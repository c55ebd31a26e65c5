package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/report/model"
)

const year = 2024

func book(title string, borrows, stock int, published *int) model.BookStat {
	return model.BookStat{ID: uuid.New(), Title: title, Author: "Anon", BorrowCount: borrows, Stock: stock, PublicationYear: published}
}

func yearPtr(y int) *int { return &y }

func TestScoreScenario(t *testing.T) {
	b := book("Pemrograman Go", 50, 5, yearPtr(year))
	assert.InDelta(t, 0.75, Score(b, year), 1e-9)
}

func TestRecency(t *testing.T) {
	tests := []struct {
		age  int
		want float64
	}{
		{-1, 1}, {0, 1}, {1, 1}, {2, 0.5}, {3, 0.5}, {4, 0.2}, {30, 0.2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Recency(tt.age), "age %d", tt.age)
	}
}

func TestScoreMissingYearUsesOldestBucket(t *testing.T) {
	withYear := book("A", 0, 0, yearPtr(year-10))
	withoutYear := book("B", 0, 0, nil)
	assert.InDelta(t, Score(withYear, year), Score(withoutYear, year), 1e-9)
	assert.InDelta(t, 0.04, Score(withoutYear, year), 1e-9)
}

func TestScoreMonotonicInBorrowCount(t *testing.T) {
	prev := -1.0
	for count := 0; count <= 150; count += 5 {
		s := Score(book("A", count, 1, yearPtr(year-2)), year)
		assert.GreaterOrEqual(t, s, prev, "count %d", count)
		prev = s
	}
}

func TestScoreStockTerm(t *testing.T) {
	for _, count := range []int{0, 10, 99} {
		inStock := Score(book("A", count, 1, yearPtr(year)), year)
		empty := Score(book("A", count, 0, yearPtr(year)), year)
		assert.Greater(t, inStock, empty)
		assert.InDelta(t, 0.3, inStock-empty, 1e-9)
	}
}

func TestScoreIsNotCapped(t *testing.T) {
	b := book("Laris", 200, 1, yearPtr(year))
	assert.InDelta(t, 1.5, Score(b, year), 1e-9)
}

func TestRankBooks(t *testing.T) {
	books := []model.BookStat{
		book("Old", 0, 0, yearPtr(year-20)),
		book("Popular", 120, 1, yearPtr(year-5)),
		book("Beta", 10, 1, yearPtr(year)),
		book("Alpha", 10, 1, yearPtr(year)),
		book("New", 0, 1, yearPtr(year)),
		book("Mid", 40, 1, yearPtr(year-2)),
		book("Empty", 40, 0, yearPtr(year)),
	}

	ranked := RankBooks(books, year, model.PopularLimit)
	require.Len(t, ranked, 5)

	titles := make([]string, len(ranked))
	for i, r := range ranked {
		titles[i] = r.Title
	}
	assert.Equal(t, []string{"Popular", "Mid", "Alpha", "Beta", "New"}, titles)

	assert.Equal(t, "0.94", ranked[0].Score)
	assert.Equal(t, "0.60", ranked[1].Score)
	assert.Equal(t, "0.55", ranked[2].Score)
	assert.Equal(t, "0.50", ranked[4].Score)
	assert.Equal(t, 120, ranked[0].BorrowCount)
	assert.Equal(t, 1, ranked[0].Stock)
}

func TestRankBooksFewerThanLimit(t *testing.T) {
	ranked := RankBooks([]model.BookStat{book("Only", 1, 1, nil)}, year, model.PopularLimit)
	require.Len(t, ranked, 1)
	assert.Empty(t, RankBooks(nil, year, model.PopularLimit))
}
