package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lofohq/lofo-server/internal/services"
	"github.com/lofohq/lofo-server/pkg/response"
)

// UserAdminHandler exposes the admin moderation surface over accounts.
type UserAdminHandler struct {
	users *services.UserService
}

func NewUserAdminHandler(users *services.UserService) *UserAdminHandler {
	return &UserAdminHandler{users: users}
}

// GET /api/admin/users
func (h *UserAdminHandler) List(c *gin.Context) {
	users, err := h.users.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, users, &response.Meta{Total: len(users)})
}

type setBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

// POST /api/admin/users/:id/block
func (h *UserAdminHandler) SetBlocked(c *gin.Context) {
	var req setBlockedRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.SetBlocked(requestContext(c), c.Param("id"), req.Blocked)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
