package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testProduct(name, price string) *model.Product {
	return &model.Product{
		ID:        uuid.New(),
		Name:      name,
		Slug:      MakeSlug(name),
		Price:     decimal.RequireFromString(price),
		Active:    true,
		CreatedAt: time.Now(),
	}
}

func TestMakeSlug(t *testing.T) {
	assert.Equal(t, "blue-coffee-mug", MakeSlug("Blue Coffee Mug"))
	assert.Equal(t, "creme-brulee", MakeSlug("Crème Brûlée"))
	assert.Equal(t, "product", MakeSlug("!!!"))
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	active := true

	tests := []struct {
		name           string
		params         ProductListParams
		expectedFilter model.ProductFilter
		total          int
		expectedPage   int
		expectedPages  int
	}{
		{
			name:           "Default limit",
			params:         ProductListParams{Limit: DefaultProductLimit},
			expectedFilter: model.ProductFilter{Limit: 30, Offset: 0},
			total:          61,
			expectedPage:   1,
			expectedPages:  3,
		},
		{
			name:           "Zero limit becomes one",
			params:         ProductListParams{},
			expectedFilter: model.ProductFilter{Limit: 1, Offset: 0},
			total:          2,
			expectedPage:   1,
			expectedPages:  2,
		},
		{
			name:           "Limit above maximum is clamped",
			params:         ProductListParams{Limit: 500, Page: 2},
			expectedFilter: model.ProductFilter{Limit: 100, Offset: 100},
			total:          150,
			expectedPage:   2,
			expectedPages:  2,
		},
		{
			name:           "Negative limit becomes one",
			params:         ProductListParams{Limit: -5},
			expectedFilter: model.ProductFilter{Limit: 1, Offset: 0},
			total:          3,
			expectedPage:   1,
			expectedPages:  3,
		},
		{
			name:           "Page below one",
			params:         ProductListParams{Page: -2, Limit: 10, Query: " mug ", Active: &active},
			expectedFilter: model.ProductFilter{Query: "mug", Active: &active, Limit: 10, Offset: 0},
			total:          0,
			expectedPage:   1,
			expectedPages:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			svc := NewProductService(repo, zerolog.Nop())
			repo.On("List", ctx, tt.expectedFilter).Return([]model.Product{}, tt.total, nil)

			page, err := svc.List(ctx, tt.params)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedPage, page.Page)
			assert.Equal(t, tt.expectedPages, page.Pages)
			assert.Equal(t, tt.total, page.Total)
			repo.AssertExpectations(t)
		})
	}

	t.Run("Repository error", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, zerolog.Nop())
		repo.On("List", ctx, mock.Anything).Return(nil, 0, errors.New("database error"))

		page, err := svc.List(ctx, ProductListParams{})

		assert.Error(t, err)
		assert.Nil(t, page)
	})
}

func TestProductService_Get(t *testing.T) {
	ctx := context.Background()
	mug := testProduct("Mug", "9.99")

	t.Run("By ID", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, zerolog.Nop())
		repo.On("GetByID", ctx, mug.ID).Return(mug, nil)

		got, err := svc.Get(ctx, mug.ID.String())

		require.NoError(t, err)
		assert.Equal(t, mug, got)
		repo.AssertNotCalled(t, "GetBySlug", mock.Anything, mock.Anything)
	})

	t.Run("By slug", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, zerolog.Nop())
		repo.On("GetBySlug", ctx, "mug").Return(mug, nil)

		got, err := svc.Get(ctx, "mug")

		require.NoError(t, err)
		assert.Equal(t, mug.ID, got.ID)
	})

	t.Run("Not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, zerolog.Nop())
		repo.On("GetBySlug", ctx, "missing").Return(nil, nil)

		_, err := svc.Get(ctx, "missing")

		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	price := decimal.RequireFromString("12.345")

	t.Run("Derives slug and defaults", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, zerolog.Nop())
		repo.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(nil)

		product, err := svc.Create(ctx, &model.ProductCreateRequest{Name: " Blue Mug ", Price: &price})

		require.NoError(t, err)
		assert.Equal(t, "Blue Mug", product.Name)
		assert.Equal(t, "blue-mug", product.Slug)
		assert.True(t, product.Active)
		assert.Equal(t, "12.35", product.Price.StringFixed(2))
	})

	t.Run("Slug collision appends suffix", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, zerolog.Nop())
		repo.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool { return p.Slug == "mug" })).
			Return(model.ErrSlugInUse).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool { return p.Slug == "mug-2" })).
			Return(nil).Once()

		product, err := svc.Create(ctx, &model.ProductCreateRequest{Name: "Mug", Price: &price})

		require.NoError(t, err)
		assert.Equal(t, "mug-2", product.Slug)
		repo.AssertExpectations(t)
	})

	t.Run("Validation", func(t *testing.T) {
		negative := decimal.NewFromInt(-1)
		huge := decimal.New(1, 12)
		roundsOver := decimal.RequireFromString("9999999999.999")
		inactive := false

		cases := []*model.ProductCreateRequest{
			{Name: "", Price: &price},
			{Name: "Mug"},
			{Name: "Mug", Price: &negative, Active: &inactive},
			{Name: "Mug", Price: &huge},
			{Name: "Mug", Price: &roundsOver},
		}
		for _, req := range cases {
			repo := new(MockProductRepository)
			svc := NewProductService(repo, zerolog.Nop())

			_, err := svc.Create(ctx, req)

			assert.True(t, model.IsKind(err, model.KindValidation))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		}
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Rename regenerates slug", func(t *testing.T) {
		mug := testProduct("Mug", "9.99")
		repo := new(MockProductRepository)
		svc := NewProductService(repo, zerolog.Nop())
		repo.On("GetByID", ctx, mug.ID).Return(mug, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(p *model.Product) bool { return p.Slug == "travel-mug" })).Return(true, nil)

		name := "Travel Mug"
		product, err := svc.Update(ctx, mug.ID.String(), &model.ProductUpdateRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "travel-mug", product.Slug)
		repo.AssertExpectations(t)
	})

	t.Run("Price change keeps slug", func(t *testing.T) {
		mug := testProduct("Mug", "9.99")
		repo := new(MockProductRepository)
		svc := NewProductService(repo, zerolog.Nop())
		repo.On("GetByID", ctx, mug.ID).Return(mug, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(p *model.Product) bool { return p.Slug == "mug" })).Return(true, nil)

		price := decimal.NewFromInt(15)
		product, err := svc.Update(ctx, mug.ID.String(), &model.ProductUpdateRequest{Price: &price})

		require.NoError(t, err)
		assert.True(t, price.Equal(product.Price))
	})

	t.Run("Price beyond catalogue range", func(t *testing.T) {
		mug := testProduct("Mug", "9.99")
		repo := new(MockProductRepository)
		svc := NewProductService(repo, zerolog.Nop())
		repo.On("GetByID", ctx, mug.ID).Return(mug, nil)

		price := decimal.New(1, 12)
		_, err := svc.Update(ctx, mug.ID.String(), &model.ProductUpdateRequest{Price: &price})

		assert.True(t, model.IsKind(err, model.KindValidation))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Unknown product", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, zerolog.Nop())
		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(nil, nil)

		_, err := svc.Update(ctx, id.String(), &model.ProductUpdateRequest{})

		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})

	t.Run("Malformed ID", func(t *testing.T) {
		svc := NewProductService(new(MockProductRepository), zerolog.Nop())

		_, err := svc.Update(ctx, "not-a-uuid", &model.ProductUpdateRequest{})

		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := new(MockProductRepository)
	svc := NewProductService(repo, zerolog.Nop())
	repo.On("Delete", ctx, id).Return(true, nil).Once()
	repo.On("Delete", ctx, id).Return(false, nil).Once()

	require.NoError(t, svc.Delete(ctx, id.String()))
	assert.ErrorIs(t, svc.Delete(ctx, id.String()), model.ErrProductNotFound)
}
