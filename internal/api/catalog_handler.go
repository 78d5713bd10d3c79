package api

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the goal, muscle group and equipment catalogs.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type CatalogItemRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateItem handles POST /catalogs/:kind
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req CatalogItemRequest
	if !bindJSON(c, &req) {
		return
	}
	kind := domain.CatalogKind(c.Param("kind"))
	item, err := h.catalogService.CreateItem(c.Request.Context(), getOrganizationID(c), kind, getAuthor(c), req.Name)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListItems handles GET /catalogs/:kind
func (h *CatalogHandler) ListItems(c *gin.Context) {
	kind := domain.CatalogKind(c.Param("kind"))
	items, err := h.catalogService.ListItems(c.Request.Context(), getOrganizationID(c), kind)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// RenameItem handles PUT /catalogs/:kind/:id
func (h *CatalogHandler) RenameItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CatalogItemRequest
	if !bindJSON(c, &req) {
		return
	}
	kind := domain.CatalogKind(c.Param("kind"))
	item, err := h.catalogService.RenameItem(c.Request.Context(), getOrganizationID(c), kind, itemID, getAuthor(c), req.Name)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /catalogs/:kind/:id
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	kind := domain.CatalogKind(c.Param("kind"))
	if err := h.catalogService.DeleteItem(c.Request.Context(), getOrganizationID(c), kind, itemID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
