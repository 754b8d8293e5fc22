package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"merchconsole/internal/common"
	"merchconsole/internal/models"
	"merchconsole/internal/services"
)

// ProductHandlers serves the console's product list
type ProductHandlers struct {
	productService services.ProductService
	log            zerolog.Logger
}

func NewProductHandlers(productService services.ProductService, log zerolog.Logger) *ProductHandlers {
	return &ProductHandlers{
		productService: productService,
		log:            log,
	}
}

// QueryProducts filters and sorts the tenant's products
func (h *ProductHandlers) QueryProducts(c echo.Context) error {
	tenantID, ok := tenantOf(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	var req models.ProductQuery
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		if details, ok := validationDetails(err); ok {
			return common.SendValidationErrors(c, details)
		}
		return common.SendClientError(c, err.Error())
	}

	products, err := h.productService.Query(c.Request().Context(), tenantID, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}
