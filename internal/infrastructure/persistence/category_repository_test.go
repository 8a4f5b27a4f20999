package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/shared"
)

func seedCategory(t *testing.T, db *Database, name string) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory(name)
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db.DB).Save(context.Background(), category))
	return category
}

func TestGormCategoryRepository_SaveAndFind(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormCategoryRepository(db.DB)
	ctx := context.Background()

	category := seedCategory(t, db, "Beverages")

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Beverages", found.Name)
		assert.True(t, found.Active)
	})

	t.Run("finds by name", func(t *testing.T) {
		found, err := repo.FindByName(ctx, "Beverages")
		require.NoError(t, err)
		assert.Equal(t, category.ID, found.ID)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("update persists rename", func(t *testing.T) {
		require.NoError(t, category.Rename("Soft Drinks"))
		require.NoError(t, repo.Save(ctx, category))

		found, err := repo.FindByID(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Soft Drinks", found.Name)
	})
}

func TestGormCategoryRepository_FindAll(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormCategoryRepository(db.DB)
	ctx := context.Background()

	seedCategory(t, db, "Beverages")
	snacks := seedCategory(t, db, "Snacks")
	snacks.Deactivate()
	require.NoError(t, repo.Save(ctx, snacks))

	all, err := repo.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filter := shared.DefaultFilter()
	filter.Filters["active"] = true
	active, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Beverages", active[0].Name)
}

func TestGormCategoryRepository_Delete(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormCategoryRepository(db.DB)
	ctx := context.Background()

	category := seedCategory(t, db, "Seasonal")

	require.NoError(t, repo.Delete(ctx, category.ID))

	_, err := repo.FindByID(ctx, category.ID)
	assert.True(t, shared.IsNotFound(err))

	assert.True(t, shared.IsNotFound(repo.Delete(ctx, category.ID)))
}
