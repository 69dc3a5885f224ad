package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lofohq/lofo-server/internal/services"
	"github.com/lofohq/lofo-server/pkg/response"
)

// AlertHandler serves the per-user view of the city alert stream.
type AlertHandler struct {
	alerts   *services.AlertService
	states   *services.AlertStateService
	users    *services.UserService
	trackers *services.TrackerRegistry
}

func NewAlertHandler(alerts *services.AlertService, states *services.AlertStateService, users *services.UserService, trackers *services.TrackerRegistry) *AlertHandler {
	return &AlertHandler{alerts: alerts, states: states, users: users, trackers: trackers}
}

// GET /api/alerts
//
// Returns the caller's visible alerts newest first, with the unread count in
// the response meta. Recomputing the view also drives the push-notification
// decision for this user's session.
func (h *AlertHandler) List(c *gin.Context) {
	ctx := requestContext(c)
	userID := currentUserID(c)

	user, err := h.users.Get(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	all, err := h.alerts.ListAll(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	state, err := h.states.Get(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	visible := h.trackers.ForUser(userID).Compute(all, user.City, state)
	response.SuccessWithMeta(c, http.StatusOK, visible.Alerts, &response.Meta{
		Total:  len(visible.Alerts),
		Unread: visible.Unread,
	})
}

// POST /api/alerts/:id/read
func (h *AlertHandler) MarkRead(c *gin.Context) {
	state, err := h.states.MarkRead(requestContext(c), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// DELETE /api/alerts/:id
func (h *AlertHandler) Dismiss(c *gin.Context) {
	state, err := h.states.Dismiss(requestContext(c), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}
