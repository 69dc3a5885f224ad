package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/lofohq/lofo-server/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentUserID returns the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

// isAdmin reports whether the authenticated token carries the admin flag.
func isAdmin(c *gin.Context) bool {
	return c.GetBool(middleware.CtxIsAdminKey)
}
