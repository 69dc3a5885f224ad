package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lofohq/lofo-server/internal/realtime"
)

// RealtimeHandler upgrades authenticated clients onto the websocket hub.
type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// GET /api/ws?streams=alerts,matches
func (h *RealtimeHandler) Serve(c *gin.Context) {
	streams := strings.Split(c.Query("streams"), ",")
	if len(streams) == 1 && strings.TrimSpace(streams[0]) == "" {
		streams = []string{realtime.StreamAlerts, realtime.StreamMatches}
	}
	h.hub.Serve(currentUserID(c), streams, c.Writer, c.Request)
}
