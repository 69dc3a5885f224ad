package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lofohq/lofo-server/internal/database/testutil"
	"github.com/lofohq/lofo-server/internal/models"
	"github.com/lofohq/lofo-server/internal/services"
)

func TestRunOncePrunesAlertsAndOrphanedState(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	alerts, err := services.NewAlertService(db, nil)
	require.NoError(t, err)
	states, err := services.NewAlertStateService(db)
	require.NoError(t, err)

	stale := models.CityAlert{
		BaseModel: models.BaseModel{CreatedAt: time.Now().AddDate(0, 0, -120)},
		Message:   "stale",
		City:      "Karachi",
		Kind:      models.KindLost,
	}
	fresh := models.CityAlert{Message: "fresh", City: "Karachi", Kind: models.KindFound}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&fresh).Error)

	user := models.User{Name: "Ali", Email: "ali@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	_, err = states.MarkRead(context.Background(), user.ID, fresh.ID)
	require.NoError(t, err)
	_, err = states.MarkRead(context.Background(), "deleted-user", fresh.ID)
	require.NoError(t, err)

	cleaner := NewCleaner(alerts, states, WithAlertRetentionDays(90))
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var alertCount int64
	require.NoError(t, db.Model(&models.CityAlert{}).Count(&alertCount).Error)
	require.EqualValues(t, 1, alertCount)

	var stateCount int64
	require.NoError(t, db.Model(&models.UserAlertState{}).Count(&stateCount).Error)
	require.EqualValues(t, 1, stateCount)
}

func TestRunOnceWithoutDependenciesIsNoop(t *testing.T) {
	cleaner := NewCleaner(nil, nil)
	require.NoError(t, cleaner.RunOnce(context.Background()))
	require.NoError(t, cleaner.Start())
	cleaner.Stop()
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	alerts, err := services.NewAlertService(db, nil)
	require.NoError(t, err)

	cleaner := NewCleaner(alerts, nil, WithAlertSchedule("not-a-spec"))
	require.Error(t, cleaner.Start())
}
