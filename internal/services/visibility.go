package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/lofohq/lofo-server/internal/models"
	"github.com/lofohq/lofo-server/internal/notify"
)

// VisibleAlerts is the personalised view of the shared alert stream.
type VisibleAlerts struct {
	Alerts []models.CityAlert `json:"alerts"`
	Unread int                `json:"unread"`
}

// VisibilityTracker computes one user's visible alert list and unread count
// by layering the read/deleted overlay onto the global stream. Each active
// user session owns one tracker; the tracker remembers the previous unread
// count so it can push a native notification when new alerts arrive.
type VisibilityTracker struct {
	mu       sync.Mutex
	userID   string
	title    string
	notifier notify.Notifier

	previousUnread int
	computed       bool
}

// NewVisibilityTracker builds a tracker for one user session. The notifier
// may be nil, in which case no notifications are pushed.
func NewVisibilityTracker(userID, title string, notifier notify.Notifier) *VisibilityTracker {
	return &VisibilityTracker{
		userID:   userID,
		title:    defaultIfEmpty(title, "LOFO Alert"),
		notifier: notifier,
	}
}

// Compute filters the alert stream down to what this user should see:
// alerts for their exact home city, minus everything they dismissed, newest
// first. The unread count covers visible alerts not yet marked read.
//
// When the unread count rises compared to the previous computation, exactly
// one notification carrying the newest visible alert's message is pushed.
// The first computation of a session never notifies; otherwise every login
// would replay a notification storm.
func (t *VisibilityTracker) Compute(allAlerts []models.CityAlert, userCity string, state *models.UserAlertState) VisibleAlerts {
	t.mu.Lock()
	defer t.mu.Unlock()

	visible := visibleAlertsFor(allAlerts, userCity, state)
	unread := unreadCount(visible, state)

	notifyNeeded := t.computed && unread > t.previousUnread && len(visible.Alerts) > 0
	t.previousUnread = unread
	t.computed = true

	visible.Unread = unread

	if notifyNeeded && t.notifier != nil {
		t.notifier.Notify(t.userID, t.title, visible.Alerts[0].Message)
	}

	return visible
}

// Reset clears the previous-count memory, e.g. when the session restarts.
func (t *VisibilityTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.previousUnread = 0
	t.computed = false
}

func visibleAlertsFor(allAlerts []models.CityAlert, userCity string, state *models.UserAlertState) VisibleAlerts {
	userCity = strings.TrimSpace(userCity)
	if userCity == "" {
		return VisibleAlerts{Alerts: []models.CityAlert{}}
	}

	deleted := map[string]struct{}{}
	if state != nil {
		deleted = state.DeletedSet()
	}

	visible := make([]models.CityAlert, 0, len(allAlerts))
	for _, alert := range allAlerts {
		if alert.City != userCity {
			continue
		}
		if _, dismissed := deleted[alert.ID]; dismissed {
			continue
		}
		visible = append(visible, alert)
	}

	// Stable sort keeps insertion order for identical timestamps.
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	return VisibleAlerts{Alerts: visible}
}

func unreadCount(visible VisibleAlerts, state *models.UserAlertState) int {
	read := map[string]struct{}{}
	if state != nil {
		read = state.ReadSet()
	}

	unread := 0
	for _, alert := range visible.Alerts {
		if _, ok := read[alert.ID]; !ok {
			unread++
		}
	}
	return unread
}

// TrackerRegistry hands out one VisibilityTracker per user session and keeps
// it alive for the lifetime of the process. Access is serialized per user by
// the tracker's own mutex.
type TrackerRegistry struct {
	mu       sync.Mutex
	trackers map[string]*VisibilityTracker
	title    string
	notifier notify.Notifier
}

// NewTrackerRegistry constructs a registry using the supplied notifier for
// all trackers it creates.
func NewTrackerRegistry(title string, notifier notify.Notifier) *TrackerRegistry {
	return &TrackerRegistry{
		trackers: make(map[string]*VisibilityTracker),
		title:    title,
		notifier: notifier,
	}
}

// ForUser returns the tracker for a user, creating it on first use.
func (r *TrackerRegistry) ForUser(userID string) *VisibilityTracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	tracker, ok := r.trackers[userID]
	if !ok {
		tracker = NewVisibilityTracker(userID, r.title, r.notifier)
		r.trackers[userID] = tracker
	}
	return tracker
}

// Drop removes a user's tracker, e.g. on logout, so the next session starts
// with a fresh first-computation guard.
func (r *TrackerRegistry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trackers, userID)
}
