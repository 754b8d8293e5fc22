package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"merchconsole/internal/common"
	"merchconsole/internal/models"
	"merchconsole/internal/services"
)

// BulkHandlers serves bulk edit sessions and bulk upload reconciliation
type BulkHandlers struct {
	productService services.ProductService
	log            zerolog.Logger
}

func NewBulkHandlers(productService services.ProductService, log zerolog.Logger) *BulkHandlers {
	return &BulkHandlers{
		productService: productService,
		log:            log,
	}
}

// SkeletonRequest selects the products of a bulk edit session
type SkeletonRequest struct {
	ProductIDs []string `json:"productIds" validate:"required,min=1,dive,required"`
}

// RestockRequest carries the filled restock leaves
type RestockRequest struct {
	Leaves []models.StockEdit `json:"leaves" validate:"required,min=1,dive"`
}

// RevisedRateRequest carries the filled revised-rate leaves. UpdatedPrice
// only applies when a single flat product is edited.
type RevisedRateRequest struct {
	UpdatedPrice *string           `json:"updatedPrice,omitempty"`
	Leaves       []models.RateEdit `json:"leaves" validate:"required,min=1,dive"`
}

// ReconcileRequest carries one upload pass and the counts gathered so far
type ReconcileRequest struct {
	Prior  *models.CombinedResult   `json:"prior,omitempty"`
	Result *models.BulkUploadResult `json:"result" validate:"required"`
}

func (h *BulkHandlers) bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		if details, ok := validationDetails(err); ok {
			return common.SendValidationErrors(c, details)
		}
		return common.SendClientError(c, err.Error())
	}
	return nil
}

func skeletonResponse(kind models.SkeletonKind, set models.SkeletonSet) map[string]interface{} {
	leaves := 0
	for _, s := range set {
		leaves += s.LeafCount()
	}
	return map[string]interface{}{
		"kind":      kind,
		"skeletons": set,
		"leafCount": leaves,
	}
}

// StartRestock returns an empty restock skeleton for every selected product
func (h *BulkHandlers) StartRestock(c echo.Context) error {
	tenantID, ok := tenantOf(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	var req SkeletonRequest
	if err := h.bind(c, &req); err != nil || c.Response().Committed {
		return err
	}

	set, err := h.productService.StartRestock(c.Request().Context(), tenantID, req.ProductIDs)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, skeletonResponse(models.SkeletonRestock, set))
}

// StartRevisedRate returns an empty revised-rate skeleton for every selected product
func (h *BulkHandlers) StartRevisedRate(c echo.Context) error {
	tenantID, ok := tenantOf(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	var req SkeletonRequest
	if err := h.bind(c, &req); err != nil || c.Response().Committed {
		return err
	}

	set, err := h.productService.StartRevisedRate(c.Request().Context(), tenantID, req.ProductIDs)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, skeletonResponse(models.SkeletonRevisedRate, set))
}

// SubmitRestock validates and submits filled restock leaves
func (h *BulkHandlers) SubmitRestock(c echo.Context) error {
	tenantID, ok := tenantOf(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	var req RestockRequest
	if err := h.bind(c, &req); err != nil || c.Response().Committed {
		return err
	}

	resp, err := h.productService.SubmitStockEdits(c.Request().Context(), tenantID, req.Leaves)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// SubmitRevisedRate validates and submits filled revised-rate leaves
func (h *BulkHandlers) SubmitRevisedRate(c echo.Context) error {
	tenantID, ok := tenantOf(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	var req RevisedRateRequest
	if err := h.bind(c, &req); err != nil || c.Response().Committed {
		return err
	}

	var updatedPrice *decimal.Decimal
	if req.UpdatedPrice != nil {
		price, err := decimal.NewFromString(*req.UpdatedPrice)
		if err != nil {
			return common.SendValidationErrors(c, map[string]string{"updatedPrice": common.ErrInvalidPrice.Error()})
		}
		updatedPrice = &price
	}

	resp, err := h.productService.SubmitRateEdits(c.Request().Context(), tenantID, req.Leaves, updatedPrice)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ReconcileUpload folds an upload pass into the running counts
func (h *BulkHandlers) ReconcileUpload(c echo.Context) error {
	var req ReconcileRequest
	if err := h.bind(c, &req); err != nil || c.Response().Committed {
		return err
	}

	outcome, err := h.productService.ReconcileUpload(c.Request().Context(), req.Prior, req.Result)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, outcome)
}
