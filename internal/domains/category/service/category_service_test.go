package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/category/model"
	"library-backend/internal/shared/apperror"
)

type fakeRepo struct {
	items map[string]*model.Category
}

func (f *fakeRepo) List(context.Context) ([]model.Category, error) {
	out := []model.Category{}
	for _, c := range f.items {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*model.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, model.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeRepo) Create(_ context.Context, name string) (*model.Category, error) {
	for _, c := range f.items {
		if c.Name == name {
			return nil, model.ErrDuplicateName
		}
	}
	c := &model.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	f.items[c.ID.String()] = c
	return c, nil
}

func (f *fakeRepo) Rename(_ context.Context, id, name string) (*model.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, model.ErrCategoryNotFound
	}
	c.Name = name
	return c, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return model.ErrCategoryNotFound
	}
	delete(f.items, id)
	return nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) InvalidateFilterOptions(context.Context) { c.n++ }

func TestCategoryLifecycle(t *testing.T) {
	inv := &countingInvalidator{}
	svc := NewService(&fakeRepo{items: map[string]*model.Category{}}, inv)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CategoryRequest{Name: "   "})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	c, err := svc.Create(ctx, model.CategoryRequest{Name: " Fiksi "})
	require.NoError(t, err)
	assert.Equal(t, "Fiksi", c.Name)

	_, err = svc.Create(ctx, model.CategoryRequest{Name: "Fiksi"})
	assert.ErrorIs(t, err, model.ErrDuplicateName)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	renamed, err := svc.Rename(ctx, c.ID.String(), model.CategoryRequest{Name: "Novel"})
	require.NoError(t, err)
	assert.Equal(t, "Novel", renamed.Name)

	_, err = svc.Rename(ctx, "bad-id", model.CategoryRequest{Name: "X"})
	assert.ErrorIs(t, err, model.ErrInvalidCategoryID)

	require.NoError(t, svc.Delete(ctx, c.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, c.ID.String()), model.ErrCategoryNotFound)

	// create, rename, delete
	assert.Equal(t, 3, inv.n)
}
