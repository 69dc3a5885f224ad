package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lofohq/lofo-server/internal/database/testutil"
	apperrors "github.com/lofohq/lofo-server/pkg/errors"
)

func TestValidateItemAgainstSeededCatalog(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc, err := NewCatalogService(db)
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, svc.ValidateItem(ctx, "Electronics", "Mobile Phone"))
	require.Error(t, svc.ValidateItem(ctx, "Electronics", "Spaceship"))

	// Empty sub-type names are always fine.
	require.NoError(t, svc.ValidateItem(ctx, "Electronics", ""))
	require.NoError(t, svc.ValidateItem(ctx, "", ""))

	// Categories without an enumerated list accept anything.
	require.NoError(t, svc.ValidateItem(ctx, "Other", "Anything at all"))

	// Unknown categories do not block submission.
	require.NoError(t, svc.ValidateItem(ctx, "Antiques", "Clock"))

	// A sub-type without a category is not valid.
	require.Error(t, svc.ValidateItem(ctx, "", "Mobile Phone"))
}

func TestListReturnsSortedCatalog(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc, err := NewCatalogService(db)
	require.NoError(t, err)

	categories, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	for i := 1; i < len(categories); i++ {
		require.LessOrEqual(t, categories[i-1].Name, categories[i].Name)
	}

	names := make(map[string][]string, len(categories))
	for _, c := range categories {
		names[c.Name] = c.Items
	}
	require.Contains(t, names, "Electronics")
	require.Contains(t, names["Electronics"], "Laptop")
	require.Empty(t, names["Other"])
}

func TestUpsertCreatesAndReplaces(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewCatalogService(db)
	require.NoError(t, err)

	ctx := context.Background()

	created, err := svc.Upsert(ctx, "Sports", []string{"Cricket Bat", " Football ", "Cricket Bat", ""})
	require.NoError(t, err)
	require.Equal(t, []string{"Cricket Bat", "Football"}, created.Items)

	replaced, err := svc.Upsert(ctx, "Sports", []string{"Tennis Racket"})
	require.NoError(t, err)
	require.Equal(t, []string{"Tennis Racket"}, replaced.Items)

	require.NoError(t, svc.ValidateItem(ctx, "Sports", "Tennis Racket"))
	require.Error(t, svc.ValidateItem(ctx, "Sports", "Cricket Bat"))
}

func TestDeleteCategory(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewCatalogService(db)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = svc.Upsert(ctx, "Sports", []string{"Football"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "Sports"))
	require.ErrorIs(t, svc.Delete(ctx, "Sports"), apperrors.ErrNotFound)
}
