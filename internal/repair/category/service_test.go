// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/repairment/internal/platform/apperr"
	"github.com/taibuivan/repairment/internal/repair/category"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeRepository struct {
	roots []category.Category
	reads int
}

func (f *fakeRepository) ListRoots(_ context.Context) ([]category.Category, error) {
	f.reads++
	return f.roots, nil
}

func (f *fakeRepository) Create(_ context.Context, input category.NewCategory) (*category.Category, error) {
	if input.ParentID > 10 {
		return nil, category.ErrParentNotFound
	}
	created := category.Category{RelationID: int64(len(f.roots) + 1), ID: int64(len(f.roots) + 1), Description: input.Description, ParentID: input.ParentID}
	if input.ParentID == category.RootParentID {
		f.roots = append(f.roots, created)
	}
	return &created, nil
}

type fakeCache struct {
	entries     []category.Category
	filled      bool
	invalidated int
}

func (f *fakeCache) Get(_ context.Context) ([]category.Category, bool, error) {
	return f.entries, f.filled, nil
}

func (f *fakeCache) Set(_ context.Context, categories []category.Category) error {
	f.entries, f.filled = categories, true
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context) error {
	f.entries, f.filled = nil, false
	f.invalidated++
	return nil
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{roots: []category.Category{{RelationID: 1, ID: 1, Description: "Electronics"}}}
}

/*
TestListRoots_Cached reads the database once and invalidates on create.
*/
func TestListRoots_Cached(t *testing.T) {
	repository := newFakeRepository()
	cache := &fakeCache{}
	service := category.NewService(repository, cache, discardLogger)
	ctx := context.Background()

	// 1. Miss, then hit
	for range 3 {
		categories, err := service.ListRoots(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 1)
	}
	assert.Equal(t, 1, repository.reads)

	// 2. A new root category is visible immediately
	_, err := service.Create(ctx, category.NewCategory{Description: "  Bikes "})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	categories, err := service.ListRoots(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, "Bikes", categories[1].Description)
	assert.Equal(t, 2, repository.reads)
}

/*
TestListRoots_RedisDown falls back to the database when Redis is unreachable.
*/
func TestListRoots_RedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	repository := newFakeRepository()
	service := category.NewService(repository, category.NewRedisCache(client, "test:categories", time.Minute), discardLogger)

	categories, err := service.ListRoots(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	_, err = service.Create(context.Background(), category.NewCategory{Description: "Bikes"})
	assert.NoError(t, err)
}

/*
TestCreate_Validation rejects blank names and unknown parents with 400.
*/
func TestCreate_Validation(t *testing.T) {
	service := category.NewService(newFakeRepository(), &fakeCache{}, discardLogger)

	tests := []struct {
		name  string
		input category.NewCategory
	}{
		{"blank", category.NewCategory{Description: "   "}},
		{"negative_parent", category.NewCategory{Description: "Tyres", ParentID: -3}},
		{"unknown_parent", category.NewCategory{Description: "Tyres", ParentID: 77}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.input)
			var appError *apperr.AppError
			require.True(t, errors.As(err, &appError))
			assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
		})
	}
}
