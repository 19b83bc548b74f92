package repository

import (
	"context"
	"testing"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off`, escapeLike("50% off"))
	assert.Equal(t, `snake\_case`, escapeLike("snake_case"))
	assert.Equal(t, `back\\slash`, escapeLike(`back\slash`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestProductRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	seedProduct(t, repo, "blue-mug", "10.00")
	seedProduct(t, repo, "red-mug", "12.50")
	seedProduct(t, repo, "100-percent-cotton", "20.00")
	hidden := seedProduct(t, repo, "hidden-mug", "5.00")
	hidden.Active = false
	_, err := repo.Update(ctx, hidden)
	require.NoError(t, err)

	active := true

	tests := []struct {
		name          string
		filter        model.ProductFilter
		expectedCount int
		expectedTotal int
	}{
		{
			name:          "All products",
			filter:        model.ProductFilter{Limit: 10},
			expectedCount: 4,
			expectedTotal: 4,
		},
		{
			name:          "Active only",
			filter:        model.ProductFilter{Active: &active, Limit: 10},
			expectedCount: 3,
			expectedTotal: 3,
		},
		{
			name:          "Case-insensitive search",
			filter:        model.ProductFilter{Query: "MUG", Active: &active, Limit: 10},
			expectedCount: 2,
			expectedTotal: 2,
		},
		{
			name:          "Percent sign is literal",
			filter:        model.ProductFilter{Query: "%", Limit: 10},
			expectedCount: 0,
			expectedTotal: 0,
		},
		{
			name:          "Paged",
			filter:        model.ProductFilter{Limit: 2, Offset: 2},
			expectedCount: 2,
			expectedTotal: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := repo.List(ctx, tt.filter)

			require.NoError(t, err)
			assert.Len(t, products, tt.expectedCount)
			assert.Equal(t, tt.expectedTotal, total)
		})
	}

	t.Run("Newest first", func(t *testing.T) {
		products, _, err := repo.List(ctx, model.ProductFilter{Limit: 10})
		require.NoError(t, err)
		require.NotEmpty(t, products)
		assert.Equal(t, "hidden-mug", products[0].Slug)
	})
}

func TestProductRepository_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	mug := seedProduct(t, repo, "mug", "9.99")

	t.Run("GetByID and GetBySlug", func(t *testing.T) {
		byID, err := repo.GetByID(ctx, mug.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.True(t, decimal.RequireFromString("9.99").Equal(byID.Price))

		bySlug, err := repo.GetBySlug(ctx, "mug")
		require.NoError(t, err)
		require.NotNil(t, bySlug)
		assert.Equal(t, mug.ID, bySlug.ID)

		missing, err := repo.GetBySlug(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("Slug collision", func(t *testing.T) {
		dup := &model.Product{Name: "Mug", Slug: "mug", Price: decimal.NewFromInt(1), Active: true}
		assert.ErrorIs(t, repo.Create(ctx, dup), model.ErrSlugInUse)
	})

	t.Run("Update", func(t *testing.T) {
		mug.Price = decimal.RequireFromString("11.00")
		ok, err := repo.Update(ctx, mug)
		require.NoError(t, err)
		assert.True(t, ok)

		ghost := &model.Product{ID: uuid.New(), Name: "x", Slug: "ghost", Price: decimal.Zero}
		ok, err = repo.Update(ctx, ghost)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("UpsertBySlug overwrites", func(t *testing.T) {
		p := &model.Product{Name: "Mug v2", Slug: "mug", Price: decimal.NewFromInt(15), Active: true}
		require.NoError(t, repo.UpsertBySlug(ctx, p))
		assert.Equal(t, mug.ID, p.ID)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Delete and DeleteAll", func(t *testing.T) {
		seedProduct(t, repo, "plate", "3.00")

		ok, err := repo.Delete(ctx, mug.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		deleted, err := repo.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)
	})
}
