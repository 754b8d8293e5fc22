package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"merchconsole/internal/common"
	"merchconsole/internal/models"
	"merchconsole/internal/services"
)

// CategoryHandlers serves the category tree and its derived views
type CategoryHandlers struct {
	categoryService services.CategoryService
	log             zerolog.Logger
}

func NewCategoryHandlers(categoryService services.CategoryService, log zerolog.Logger) *CategoryHandlers {
	return &CategoryHandlers{
		categoryService: categoryService,
		log:             log,
	}
}

func (h *CategoryHandlers) index(c echo.Context) (*services.CategoryTreeIndex, error) {
	tenantID, ok := tenantOf(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	return h.categoryService.Index(c.Request().Context(), tenantID)
}

// GetTree returns the nested category forest
func (h *CategoryHandlers) GetTree(c echo.Context) error {
	tenantID, ok := tenantOf(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	tree, err := h.categoryService.Tree(c.Request().Context(), tenantID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": tree,
	})
}

// GetFlat returns every category in pre-order with its full path label
func (h *CategoryHandlers) GetFlat(c echo.Context) error {
	idx, err := h.index(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": idx.Flat(),
		"separator":  idx.Separator(),
	})
}

// GetChildren returns the direct children of a category
func (h *CategoryHandlers) GetChildren(c echo.Context) error {
	idx, err := h.index(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	id := c.Param("id")
	if idx.FindByID(id) == nil {
		return common.SendNotFoundError(c, "Category")
	}
	children := idx.ChildrenOf(id)
	if children == nil {
		children = []*models.Category{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": children,
	})
}

// GetAncestors returns the breadcrumb from the root down to the category.
// The optional upto query parameter truncates it after that position.
func (h *CategoryHandlers) GetAncestors(c echo.Context) error {
	idx, err := h.index(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	ancestors := idx.Ancestors(c.Param("id"))
	if len(ancestors) == 0 {
		return common.SendNotFoundError(c, "Category")
	}

	if raw := c.QueryParam("upto"); raw != "" {
		upto, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return common.SendClientError(c, "upto must be an integer")
		}
		chain := make([]*models.Category, 0, len(ancestors))
		for _, a := range ancestors {
			chain = append(chain, idx.FindByID(a.ID))
		}
		ancestors = ancestors[:len(services.TruncatePath(chain, upto))]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"breadcrumb": ancestors,
	})
}

// GetDescendants returns the category's subtree, flattened
func (h *CategoryHandlers) GetDescendants(c echo.Context) error {
	idx, err := h.index(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	id := c.Param("id")
	if idx.FindByID(id) == nil {
		return common.SendNotFoundError(c, "Category")
	}
	descendants := idx.Descendants(id)
	if descendants == nil {
		descendants = []models.FlatCategory{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": descendants,
	})
}

// RefreshTree reloads the tree from the store and rewrites the cache
func (h *CategoryHandlers) RefreshTree(c echo.Context) error {
	tenantID, ok := tenantOf(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	if err := h.categoryService.Refresh(c.Request().Context(), tenantID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
