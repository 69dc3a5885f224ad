package realtime

// Named realtime streams used across the platform.
const (
	StreamAlerts  = "alerts"
	StreamMatches = "matches"
)
