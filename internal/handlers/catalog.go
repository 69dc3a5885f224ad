package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lofohq/lofo-server/internal/services"
	"github.com/lofohq/lofo-server/pkg/response"
)

// CatalogHandler serves the category/sub-item catalog. Reads are public to
// authenticated users; writes are admin-only.
type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/catalog
func (h *CatalogHandler) List(c *gin.Context) {
	categories, err := h.catalog.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

type upsertCategoryRequest struct {
	Name  string   `json:"name" validate:"required,max=64"`
	Items []string `json:"items"`
}

// PUT /api/catalog
func (h *CatalogHandler) Upsert(c *gin.Context) {
	var req upsertCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	category, err := h.catalog.Upsert(requestContext(c), req.Name, req.Items)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, category)
}

// DELETE /api/catalog/:name
func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(requestContext(c), c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
