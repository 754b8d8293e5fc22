package handlers

import (
	"github.com/labstack/echo/v4"

	"merchconsole/internal/common"
)

// RegisterRoutes mounts the console API on e
func RegisterRoutes(e *echo.Echo, categories *CategoryHandlers, products *ProductHandlers, bulk *BulkHandlers, health *HealthHandlers) {
	e.GET("/health", health.HealthCheck)

	api := e.Group("/api", common.TenantMiddleware)

	api.GET("/categories/tree", categories.GetTree)
	api.GET("/categories/flat", categories.GetFlat)
	api.POST("/categories/refresh", categories.RefreshTree)
	api.GET("/categories/:id/children", categories.GetChildren)
	api.GET("/categories/:id/ancestors", categories.GetAncestors)
	api.GET("/categories/:id/descendants", categories.GetDescendants)

	api.POST("/products/query", products.QueryProducts)

	api.POST("/bulk/restock/skeleton", bulk.StartRestock)
	api.POST("/bulk/rates/skeleton", bulk.StartRevisedRate)
	api.POST("/bulk/restock", bulk.SubmitRestock)
	api.POST("/bulk/rates", bulk.SubmitRevisedRate)
	api.POST("/bulk/uploads/reconcile", bulk.ReconcileUpload)
}
