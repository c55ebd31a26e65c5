package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book/model"
	infracache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/shared/apperror"
)

type fakeRepo struct {
	books        map[string]*model.Book
	fulltext     []model.SearchResult
	like         []model.SearchResult
	activeLoans  map[string]bool
	optionsCalls int
	lastFilter   model.BookFilter
	likeCalled   bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{books: map[string]*model.Book{}, activeLoans: map[string]bool{}}
}

func (f *fakeRepo) List(_ context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	f.lastFilter = filter
	out := []model.Book{}
	for _, b := range f.books {
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (f *fakeRepo) SearchFulltext(context.Context, string, int) ([]model.SearchResult, error) {
	return f.fulltext, nil
}

func (f *fakeRepo) SearchLike(context.Context, string, int) ([]model.SearchResult, error) {
	f.likeCalled = true
	return f.like, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) Create(_ context.Context, req model.CreateBookRequest) (uuid.UUID, error) {
	id := uuid.New()
	f.books[id.String()] = &model.Book{ID: id, Title: req.Title, Author: req.Author, Stock: *req.Stock, IsActive: true}
	return id, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, req model.UpdateBookRequest) error {
	b, ok := f.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Stock != nil {
		b.Stock = *req.Stock
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.books, id)
	return nil
}

func (f *fakeRepo) HasActiveBorrowings(_ context.Context, id string) (bool, error) {
	return f.activeLoans[id], nil
}

func (f *fakeRepo) FilterOptions(context.Context) (*model.FilterOptions, error) {
	f.optionsCalls++
	return &model.FilterOptions{Authors: []string{"Tere Liye"}, Years: []int{2024}, Categories: []string{"Fiksi"}}, nil
}

func newCache(t *testing.T) *infracache.RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return infracache.NewRedisCacheFromClient(client, "test:")
}

func intPtr(v int) *int { return &v }

func TestListBooksNormalizesPaging(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	res, err := svc.ListBooks(context.Background(), model.ListBooksRequest{Page: 0, Limit: 500, Search: "  laskar "})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Pagination.CurrentPage)
	assert.Equal(t, 100, res.Pagination.PerPage)
	assert.Equal(t, 0, repo.lastFilter.Offset)
	assert.Equal(t, "laskar", repo.lastFilter.Search)

	_, err = svc.ListBooks(context.Background(), model.ListBooksRequest{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastFilter.Offset)
}

func TestSearchBooksFallsBackToLike(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.like = []model.SearchResult{{Title: "Bumi Manusia"}}
	res, err := svc.SearchBooks(ctx, model.SearchBooksRequest{Query: "bumi"})
	require.NoError(t, err)
	assert.True(t, repo.likeCalled)
	assert.Len(t, res, 1)

	repo.likeCalled = false
	repo.fulltext = []model.SearchResult{{Title: "Bumi"}}
	_, err = svc.SearchBooks(ctx, model.SearchBooksRequest{Query: "bumi"})
	require.NoError(t, err)
	assert.False(t, repo.likeCalled)

	_, err = svc.SearchBooks(ctx, model.SearchBooksRequest{Query: "   "})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestCreateBookValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, model.CreateBookRequest{Author: "A", Stock: intPtr(1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.CreateBook(ctx, model.CreateBookRequest{Title: "T", Author: "A"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.CreateBook(ctx, model.CreateBookRequest{Title: "T", Author: "A", Stock: intPtr(-1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	id, err := svc.CreateBook(ctx, model.CreateBookRequest{Title: "T", Author: "A", Stock: intPtr(0)})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestUpdateBook(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, model.CreateBookRequest{Title: "Old", Author: "A", Stock: intPtr(1)})
	require.NoError(t, err)

	_, err = svc.UpdateBook(ctx, id, model.UpdateBookRequest{})
	assert.ErrorIs(t, err, model.ErrEmptyUpdate)

	_, err = svc.UpdateBook(ctx, "not-a-uuid", model.UpdateBookRequest{Stock: intPtr(2)})
	assert.ErrorIs(t, err, model.ErrInvalidBookID)

	title := "New"
	b, err := svc.UpdateBook(ctx, id, model.UpdateBookRequest{Title: &title, Stock: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, "New", b.Title)
	assert.Equal(t, 4, b.Stock)
}

func TestDeleteBookRefusedWhileOnLoan(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, model.CreateBookRequest{Title: "T", Author: "A", Stock: intPtr(1)})
	require.NoError(t, err)

	repo.activeLoans[id] = true
	err = svc.DeleteBook(ctx, id)
	assert.ErrorIs(t, err, model.ErrBookHasActiveLoans)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	repo.activeLoans[id] = false
	require.NoError(t, svc.DeleteBook(ctx, id))

	err = svc.DeleteBook(ctx, id)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestFilterOptionsCachedAndInvalidated(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, newCache(t))
	ctx := context.Background()

	first, err := svc.GetFilterOptions(ctx)
	require.NoError(t, err)
	second, err := svc.GetFilterOptions(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.optionsCalls)

	_, err = svc.CreateBook(ctx, model.CreateBookRequest{Title: "T", Author: "A", Stock: intPtr(1)})
	require.NoError(t, err)

	_, err = svc.GetFilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.optionsCalls)
}
