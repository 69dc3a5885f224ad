package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lofohq/lofo-server/internal/services"
	"github.com/lofohq/lofo-server/pkg/response"
)

// ReportHandler serves the lost/found report directory.
type ReportHandler struct {
	items *services.ItemService
	users *services.UserService
}

func NewReportHandler(items *services.ItemService, users *services.UserService) *ReportHandler {
	return &ReportHandler{items: items, users: users}
}

type createReportRequest struct {
	Kind         string `json:"kind" validate:"required,oneof=LOST FOUND lost found"`
	Title        string `json:"title" validate:"max=160"`
	Description  string `json:"description" validate:"max=4000"`
	Category     string `json:"category" validate:"max=64"`
	SubTypeName  string `json:"sub_type_name" validate:"max=64"`
	City         string `json:"city" validate:"max=64"`
	Area         string `json:"area" validate:"max=128"`
	SubArea      string `json:"sub_area" validate:"max=128"`
	ImageURL     string `json:"image_url"`
	ContactPhone string `json:"contact_phone" validate:"max=32"`
}

// POST /api/reports
func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportRequest
	if !bindAndValidate(c, &req) {
		return
	}

	author, err := h.users.Get(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	created, err := h.items.Create(requestContext(c), *author, services.CreateReportInput{
		Kind:         req.Kind,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		SubTypeName:  req.SubTypeName,
		City:         req.City,
		Area:         req.Area,
		SubArea:      req.SubArea,
		ImageURL:     req.ImageURL,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// GET /api/reports
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.items.List(requestContext(c), services.ListReportsInput{
		Kind:     c.Query("kind"),
		City:     c.Query("city"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		AuthorID: c.Query("author_id"),
		Search:   c.Query("q"),
		Limit:    parseIntQuery(c, "limit", 25),
		Offset:   parseIntQuery(c, "offset", 0),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reports)
}

// GET /api/reports/mine
func (h *ReportHandler) Mine(c *gin.Context) {
	reports, err := h.items.List(requestContext(c), services.ListReportsInput{
		AuthorID: currentUserID(c),
		Status:   c.Query("status"),
		Limit:    parseIntQuery(c, "limit", 100),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reports)
}

// GET /api/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.items.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

type updateReportRequest struct {
	Title        *string `json:"title" validate:"omitempty,max=160"`
	Description  *string `json:"description" validate:"omitempty,max=4000"`
	Category     *string `json:"category" validate:"omitempty,max=64"`
	SubTypeName  *string `json:"sub_type_name" validate:"omitempty,max=64"`
	City         *string `json:"city" validate:"omitempty,max=64"`
	Area         *string `json:"area" validate:"omitempty,max=128"`
	SubArea      *string `json:"sub_area" validate:"omitempty,max=128"`
	ImageURL     *string `json:"image_url"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,max=32"`
}

// PATCH /api/reports/:id
func (h *ReportHandler) Update(c *gin.Context) {
	var req updateReportRequest
	if !bindAndValidate(c, &req) {
		return
	}

	report, err := h.items.Update(requestContext(c), currentUserID(c), isAdmin(c), c.Param("id"), services.UpdateReportInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		SubTypeName:  req.SubTypeName,
		City:         req.City,
		Area:         req.Area,
		SubArea:      req.SubArea,
		ImageURL:     req.ImageURL,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PATCH /api/reports/:id/status
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	report, err := h.items.UpdateStatus(requestContext(c), currentUserID(c), isAdmin(c), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

// DELETE /api/reports/:id
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.items.Delete(requestContext(c), currentUserID(c), isAdmin(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
