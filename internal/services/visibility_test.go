package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lofohq/lofo-server/internal/models"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
}

type notification struct {
	UserID string
	Title  string
	Body   string
}

func (n *recordingNotifier) RequestPermission() error { return nil }

func (n *recordingNotifier) Notify(userID, title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{UserID: userID, Title: title, Body: body})
}

func (n *recordingNotifier) Calls() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification, len(n.calls))
	copy(out, n.calls)
	return out
}

func alertAt(id, city, message string, createdAt time.Time) models.CityAlert {
	return models.CityAlert{
		BaseModel: models.BaseModel{ID: id, CreatedAt: createdAt},
		Message:   message,
		City:      city,
		Kind:      models.KindLost,
	}
}

func TestComputeFiltersByExactCity(t *testing.T) {
	now := time.Now()
	alerts := []models.CityAlert{
		alertAt("a1", "Karachi", "wallet lost in Karachi", now),
		alertAt("a2", "Lahore", "phone found in Lahore", now.Add(time.Minute)),
		alertAt("a3", "karachi", "keys lost in karachi", now.Add(2*time.Minute)),
	}

	tracker := NewVisibilityTracker("u1", "Alert", nil)
	visible := tracker.Compute(alerts, "Karachi", nil)

	require.Len(t, visible.Alerts, 1)
	require.Equal(t, "a1", visible.Alerts[0].ID)
	require.Equal(t, 1, visible.Unread)
}

func TestComputeEmptyCitySeesNothing(t *testing.T) {
	alerts := []models.CityAlert{
		alertAt("a1", "Karachi", "wallet lost in Karachi", time.Now()),
	}

	tracker := NewVisibilityTracker("u1", "Alert", nil)
	visible := tracker.Compute(alerts, "", nil)

	require.Empty(t, visible.Alerts)
	require.Zero(t, visible.Unread)
}

func TestComputeHidesDismissedRegardlessOfReadState(t *testing.T) {
	now := time.Now()
	alerts := []models.CityAlert{
		alertAt("a1", "Karachi", "wallet lost in Karachi", now),
		alertAt("a2", "Karachi", "phone found in Karachi", now.Add(time.Minute)),
	}
	state := &models.UserAlertState{
		UserID:          "u1",
		ReadAlertIDs:    models.EncodeIDSet([]string{"a1"}),
		DeletedAlertIDs: models.EncodeIDSet([]string{"a1"}),
	}

	tracker := NewVisibilityTracker("u1", "Alert", nil)
	visible := tracker.Compute(alerts, "Karachi", state)

	require.Len(t, visible.Alerts, 1)
	require.Equal(t, "a2", visible.Alerts[0].ID)
	require.Equal(t, 1, visible.Unread)
}

func TestComputeOrdersNewestFirst(t *testing.T) {
	now := time.Now()
	alerts := []models.CityAlert{
		alertAt("old", "Karachi", "old", now.Add(-time.Hour)),
		alertAt("new", "Karachi", "new", now),
		alertAt("mid", "Karachi", "mid", now.Add(-time.Minute)),
	}

	tracker := NewVisibilityTracker("u1", "Alert", nil)
	visible := tracker.Compute(alerts, "Karachi", nil)

	require.Len(t, visible.Alerts, 3)
	require.Equal(t, "new", visible.Alerts[0].ID)
	require.Equal(t, "mid", visible.Alerts[1].ID)
	require.Equal(t, "old", visible.Alerts[2].ID)
}

func TestComputeUnreadArithmetic(t *testing.T) {
	now := time.Now()
	alerts := []models.CityAlert{
		alertAt("a1", "Karachi", "one", now),
		alertAt("a2", "Karachi", "two", now.Add(time.Minute)),
		alertAt("a3", "Karachi", "three", now.Add(2*time.Minute)),
	}
	state := &models.UserAlertState{
		UserID:       "u1",
		ReadAlertIDs: models.EncodeIDSet([]string{"a2"}),
	}

	tracker := NewVisibilityTracker("u1", "Alert", nil)
	visible := tracker.Compute(alerts, "Karachi", state)

	require.Len(t, visible.Alerts, 3)
	require.Equal(t, 2, visible.Unread)
}

func TestFirstComputationNeverNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	alerts := []models.CityAlert{
		alertAt("a1", "Karachi", "wallet lost in Karachi", time.Now()),
	}

	tracker := NewVisibilityTracker("u1", "Alert", notifier)
	visible := tracker.Compute(alerts, "Karachi", nil)

	require.Equal(t, 1, visible.Unread)
	require.Empty(t, notifier.Calls())
}

func TestNotifiesOnceWhenUnreadRises(t *testing.T) {
	notifier := &recordingNotifier{}
	now := time.Now()
	first := []models.CityAlert{
		alertAt("a1", "Karachi", "wallet lost in Karachi", now),
	}

	tracker := NewVisibilityTracker("u1", "LOFO Alert", notifier)
	tracker.Compute(first, "Karachi", nil)
	require.Empty(t, notifier.Calls())

	second := append([]models.CityAlert{
		alertAt("a2", "Karachi", "phone found in Karachi", now.Add(time.Minute)),
	}, first...)
	tracker.Compute(second, "Karachi", nil)

	calls := notifier.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "u1", calls[0].UserID)
	require.Equal(t, "LOFO Alert", calls[0].Title)
	require.Equal(t, "phone found in Karachi", calls[0].Body)
}

func TestNoNotificationWhenUnreadFallsOrHolds(t *testing.T) {
	notifier := &recordingNotifier{}
	now := time.Now()
	alerts := []models.CityAlert{
		alertAt("a1", "Karachi", "one", now),
		alertAt("a2", "Karachi", "two", now.Add(time.Minute)),
	}

	tracker := NewVisibilityTracker("u1", "Alert", notifier)
	tracker.Compute(alerts, "Karachi", nil)

	// Unread drops after the user reads one alert.
	read := &models.UserAlertState{
		UserID:       "u1",
		ReadAlertIDs: models.EncodeIDSet([]string{"a2"}),
	}
	tracker.Compute(alerts, "Karachi", read)
	// Unchanged unread count on the next poll.
	tracker.Compute(alerts, "Karachi", read)

	require.Empty(t, notifier.Calls())
}

func TestResetRestoresFirstComputationGuard(t *testing.T) {
	notifier := &recordingNotifier{}
	alerts := []models.CityAlert{
		alertAt("a1", "Karachi", "one", time.Now()),
	}

	tracker := NewVisibilityTracker("u1", "Alert", notifier)
	tracker.Compute(nil, "Karachi", nil)
	tracker.Reset()
	tracker.Compute(alerts, "Karachi", nil)

	require.Empty(t, notifier.Calls())
}

func TestTrackerRegistryReusesAndDrops(t *testing.T) {
	registry := NewTrackerRegistry("Alert", nil)

	first := registry.ForUser("u1")
	require.Same(t, first, registry.ForUser("u1"))
	require.NotSame(t, first, registry.ForUser("u2"))

	registry.Drop("u1")
	require.NotSame(t, first, registry.ForUser("u1"))
}
