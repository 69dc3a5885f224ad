package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lofohq/lofo-server/internal/database/testutil"
	"github.com/lofohq/lofo-server/internal/models"
)

func TestGetMissingStateReturnsEmptyOverlay(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAlertStateService(db)
	require.NoError(t, err)

	state, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Empty(t, state.ReadSet())
	require.Empty(t, state.DeletedSet())
}

func TestMarkReadIsIdempotent(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAlertStateService(db)
	require.NoError(t, err)

	first, err := svc.MarkRead(context.Background(), "u1", "a1")
	require.NoError(t, err)
	require.Contains(t, first.ReadSet(), "a1")

	second, err := svc.MarkRead(context.Background(), "u1", "a1")
	require.NoError(t, err)
	require.Len(t, second.ReadSet(), 1)

	stored, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, stored.ReadSet(), 1)
}

func TestDismissDoesNotMarkRead(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAlertStateService(db)
	require.NoError(t, err)

	state, err := svc.Dismiss(context.Background(), "u1", "a1")
	require.NoError(t, err)
	require.Contains(t, state.DeletedSet(), "a1")
	require.Empty(t, state.ReadSet())
}

func TestReadAndDeletedSetsAreIndependent(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAlertStateService(db)
	require.NoError(t, err)

	_, err = svc.MarkRead(context.Background(), "u1", "a1")
	require.NoError(t, err)
	_, err = svc.MarkRead(context.Background(), "u1", "a2")
	require.NoError(t, err)
	_, err = svc.Dismiss(context.Background(), "u1", "a1")
	require.NoError(t, err)

	state, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, state.ReadSet(), 2)
	require.Len(t, state.DeletedSet(), 1)
	require.Contains(t, state.DeletedSet(), "a1")
}

func TestStateIsScopedPerUser(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAlertStateService(db)
	require.NoError(t, err)

	_, err = svc.MarkRead(context.Background(), "u1", "a1")
	require.NoError(t, err)

	other, err := svc.Get(context.Background(), "u2")
	require.NoError(t, err)
	require.Empty(t, other.ReadSet())
}

func TestUpdateRequiresIDs(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAlertStateService(db)
	require.NoError(t, err)

	_, err = svc.MarkRead(context.Background(), "", "a1")
	require.Error(t, err)
	_, err = svc.MarkRead(context.Background(), "u1", " ")
	require.Error(t, err)
}

func TestCleanupOrphanedRemovesStateWithoutUser(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAlertStateService(db)
	require.NoError(t, err)

	user := models.User{Name: "Ali", Email: "ali@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	_, err = svc.MarkRead(context.Background(), user.ID, "a1")
	require.NoError(t, err)
	_, err = svc.MarkRead(context.Background(), "ghost-user", "a1")
	require.NoError(t, err)

	removed, err := svc.CleanupOrphaned(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	kept, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	require.Contains(t, kept.ReadSet(), "a1")
}
