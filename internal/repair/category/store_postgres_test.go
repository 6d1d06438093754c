// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/repairment/internal/platform/apperr"
	"github.com/taibuivan/repairment/internal/platform/postgres/pgtest"
	"github.com/taibuivan/repairment/internal/repair/category"
)

/*
TestListRoots reads the seeded top-level categories and ignores children.
*/
func TestListRoots(t *testing.T) {
	pool := pgtest.Open(t)
	pgtest.Exec(t, pool,
		`INSERT INTO category (id, description) VALUES (40, 'Phone screens')`,
		`INSERT INTO category_relation (category_id, parent_category_id) VALUES (40, 1)`,
	)
	repository := category.NewRepository(pool)

	categories, err := repository.ListRoots(context.Background())
	require.NoError(t, err)

	descriptions := make([]string, 0, len(categories))
	for _, c := range categories {
		assert.Equal(t, int64(category.RootParentID), c.ParentID)
		descriptions = append(descriptions, c.Description)
	}
	assert.Equal(t, []string{"Electronics", "Home appliances", "Bicycles"}, descriptions)
}

/*
TestCreate covers root and child inserts, unknown parents and duplicate names.
*/
func TestCreate(t *testing.T) {
	pool := pgtest.Open(t)
	repository := category.NewRepository(pool)
	ctx := context.Background()

	t.Run("root", func(t *testing.T) {
		created, err := repository.Create(ctx, category.NewCategory{Description: "Garden tools"})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.NotZero(t, created.RelationID)
		assert.Equal(t, "Garden tools", created.Description)

		roots, err := repository.ListRoots(ctx)
		require.NoError(t, err)
		assert.Contains(t, roots, *created)
	})

	t.Run("child", func(t *testing.T) {
		created, err := repository.Create(ctx, category.NewCategory{Description: "Brakes", ParentID: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(3), created.ParentID)

		roots, err := repository.ListRoots(ctx)
		require.NoError(t, err)
		assert.NotContains(t, roots, *created)
	})

	t.Run("unknown_parent", func(t *testing.T) {
		_, err := repository.Create(ctx, category.NewCategory{Description: "Tyres", ParentID: 777})
		assert.ErrorIs(t, err, category.ErrParentNotFound)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := repository.Create(ctx, category.NewCategory{Description: "Electronics"})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
	})
}
