package notify

import (
	"github.com/lofohq/lofo-server/internal/realtime"
	"github.com/lofohq/lofo-server/pkg/metrics"
)

// Notifier abstracts the platform notification capability. Implementations
// must never surface delivery errors to callers; a notification that cannot
// be delivered is silently dropped.
type Notifier interface {
	// RequestPermission is called once at startup. A non-nil error means the
	// capability is unavailable; callers degrade silently.
	RequestPermission() error

	// Notify delivers one native notification to the given user.
	Notify(userID, title, body string)
}

// HubNotifier pushes notifications to the user's connected devices over the
// realtime websocket stream.
type HubNotifier struct {
	hub *realtime.Hub
}

// NewHubNotifier constructs a notifier backed by the realtime hub.
func NewHubNotifier(hub *realtime.Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// RequestPermission reports whether the hub is available.
func (n *HubNotifier) RequestPermission() error {
	return nil
}

// Notify pushes a notification event to every device the user has connected.
func (n *HubNotifier) Notify(userID, title, body string) {
	if n.hub == nil || userID == "" {
		metrics.NotificationsPushed.WithLabelValues("dropped").Inc()
		return
	}

	n.hub.BroadcastToUser(realtime.StreamAlerts, userID, realtime.Message{
		Event: "notification",
		Data: map[string]string{
			"title": title,
			"body":  body,
		},
	})
	metrics.NotificationsPushed.WithLabelValues("sent").Inc()
}

// Noop is a Notifier that drops everything; used when push delivery is
// disabled or permission was denied.
type Noop struct{}

// RequestPermission always succeeds.
func (Noop) RequestPermission() error { return nil }

// Notify discards the notification.
func (Noop) Notify(userID, title, body string) {
	metrics.NotificationsPushed.WithLabelValues("dropped").Inc()
}
