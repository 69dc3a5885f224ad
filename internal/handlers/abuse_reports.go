package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lofohq/lofo-server/internal/services"
	"github.com/lofohq/lofo-server/pkg/response"
)

// AbuseReportHandler lets users flag other users and admins work the queue.
type AbuseReportHandler struct {
	abuse *services.AbuseReportService
}

func NewAbuseReportHandler(abuse *services.AbuseReportService) *AbuseReportHandler {
	return &AbuseReportHandler{abuse: abuse}
}

type fileAbuseRequest struct {
	ReportedUserID string `json:"reported_user_id" validate:"required"`
	Reason         string `json:"reason" validate:"required,max=2000"`
}

// POST /api/abuse-reports
func (h *AbuseReportHandler) File(c *gin.Context) {
	var req fileAbuseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	report, err := h.abuse.File(requestContext(c), currentUserID(c), req.ReportedUserID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, report)
}

// GET /api/abuse-reports
func (h *AbuseReportHandler) List(c *gin.Context) {
	reports, err := h.abuse.List(requestContext(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reports)
}

// POST /api/abuse-reports/:id/resolve
func (h *AbuseReportHandler) Resolve(c *gin.Context) {
	report, err := h.abuse.Resolve(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}
