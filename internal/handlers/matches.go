package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lofohq/lofo-server/internal/services"
	"github.com/lofohq/lofo-server/pkg/response"
)

// MatchHandler serves lost/found match lookups.
type MatchHandler struct {
	matches *services.MatchService
}

func NewMatchHandler(matches *services.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// GET /api/reports/:id/match
func (h *MatchHandler) BestMatch(c *gin.Context) {
	result, err := h.matches.BestMatchForReport(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GET /api/matches
func (h *MatchHandler) Cases(c *gin.Context) {
	cases, err := h.matches.ListCases(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, cases, &response.Meta{Total: len(cases)})
}
