package catalog

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRecords() []Record {
	hidden := false
	return []Record{
		{Name: "Blue Mug", Price: decimal.RequireFromString("12.499")},
		{Name: "Hidden Lamp", Price: decimal.NewFromInt(40), Active: &hidden},
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode(" Replace ")
	require.NoError(t, err)
	assert.Equal(t, ModeReplace, mode)

	mode, err = ParseMode("upsert")
	require.NoError(t, err)
	assert.Equal(t, ModeUpsert, mode)

	_, err = ParseMode("merge")
	assert.Error(t, err)
}

func TestImporter_Replace(t *testing.T) {
	products := new(MockProductService)
	repo := new(MockProductRepository)
	importer := NewImporter(products, repo, zerolog.Nop())

	repo.On("DeleteAll", mock.Anything).Return(int64(3), nil)
	products.On("Create", mock.Anything, mock.MatchedBy(func(req *model.ProductCreateRequest) bool {
		return req.Name == "Blue Mug" && req.Active == nil
	})).Return(&model.Product{Name: "Blue Mug"}, nil)
	products.On("Create", mock.Anything, mock.MatchedBy(func(req *model.ProductCreateRequest) bool {
		return req.Name == "Hidden Lamp" && req.Active != nil && !*req.Active
	})).Return(&model.Product{Name: "Hidden Lamp"}, nil)

	n, err := importer.Import(context.Background(), testRecords(), ModeReplace)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	repo.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestImporter_Upsert(t *testing.T) {
	repo := new(MockProductRepository)
	importer := NewImporter(new(MockProductService), repo, zerolog.Nop())

	var saved []*model.Product
	repo.On("UpsertBySlug", mock.Anything, mock.AnythingOfType("*model.Product")).
		Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(*model.Product)) }).
		Return(nil)

	n, err := importer.Import(context.Background(), testRecords(), ModeUpsert)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, saved, 2)
	assert.Equal(t, "blue-mug", saved[0].Slug)
	assert.Equal(t, "12.5", saved[0].Price.String())
	assert.True(t, saved[0].Active)
	assert.Equal(t, "hidden-lamp", saved[1].Slug)
	assert.False(t, saved[1].Active)
	repo.AssertNotCalled(t, "DeleteAll", mock.Anything)
}

func TestImporter_InvalidRecordsTouchNothing(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{name: "Missing name", records: []Record{{Name: "  ", Price: decimal.NewFromInt(1)}}},
		{name: "Negative price", records: []Record{{Name: "Mug", Price: decimal.NewFromInt(-1)}}},
		{name: "Price too large", records: []Record{{Name: "Mug", Price: decimal.New(1, 12)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			importer := NewImporter(new(MockProductService), repo, zerolog.Nop())

			_, err := importer.Import(context.Background(), tt.records, ModeReplace)

			assert.Error(t, err)
			repo.AssertNotCalled(t, "DeleteAll", mock.Anything)
		})
	}
}

func TestImporter_SeedIfEmpty(t *testing.T) {
	load := func(ctx context.Context) ([]Record, error) {
		return []Record{{Name: "Mug", Price: decimal.NewFromInt(5)}}, nil
	}

	t.Run("Skips populated catalog", func(t *testing.T) {
		repo := new(MockProductRepository)
		importer := NewImporter(new(MockProductService), repo, zerolog.Nop())
		repo.On("Count", mock.Anything).Return(4, nil)

		seeded, err := importer.SeedIfEmpty(context.Background(), func(ctx context.Context) ([]Record, error) {
			t.Error("loader should not run")
			return nil, nil
		})

		require.NoError(t, err)
		assert.False(t, seeded)
	})

	t.Run("Seeds empty catalog", func(t *testing.T) {
		products := new(MockProductService)
		repo := new(MockProductRepository)
		importer := NewImporter(products, repo, zerolog.Nop())
		repo.On("Count", mock.Anything).Return(0, nil)
		repo.On("DeleteAll", mock.Anything).Return(int64(0), nil)
		products.On("Create", mock.Anything, mock.Anything).Return(&model.Product{Name: "Mug"}, nil)

		seeded, err := importer.SeedIfEmpty(context.Background(), load)

		require.NoError(t, err)
		assert.True(t, seeded)
		products.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("Load failure", func(t *testing.T) {
		repo := new(MockProductRepository)
		importer := NewImporter(new(MockProductService), repo, zerolog.Nop())
		repo.On("Count", mock.Anything).Return(0, nil)

		seeded, err := importer.SeedIfEmpty(context.Background(), func(ctx context.Context) ([]Record, error) {
			return nil, errors.New("no files")
		})

		assert.Error(t, err)
		assert.False(t, seeded)
	})
}
