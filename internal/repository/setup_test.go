package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the storefront schema
// applied and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedUser inserts a user with the given email.
func seedUser(t *testing.T, repo UserRepository, email string) *model.User {
	user := &model.User{
		Name:         "Test " + email,
		Email:        email,
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

// seedProduct inserts an active product with the given slug and price.
func seedProduct(t *testing.T, repo ProductRepository, slug, price string) *model.Product {
	product := &model.Product{
		Name:   "Product " + slug,
		Slug:   slug,
		Price:  decimal.RequireFromString(price),
		Image:  "https://img.example/" + slug + ".png",
		Active: true,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}
