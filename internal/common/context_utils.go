package common

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	TenantIDKey contextKey = "tenant_id"
)

// TenantHeader carries the tenant the console is acting for
const TenantHeader = "X-Tenant-ID"

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationErrors sends per-leaf validation failures
func SendValidationErrors(c echo.Context, details map[string]string) error {
	return c.JSON(http.StatusUnprocessableEntity, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendConflictError sends a conflict response, used for stale skeletons
func SendConflictError(c echo.Context, message string, details map[string]string) error {
	return c.JSON(http.StatusConflict, CreateErrorResponse("SHAPE_MISMATCH", message, details))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", resource+" not found", nil))
}

// WithTenantID stores the tenant ID in the context
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

// GetTenantIDFromContext extracts the tenant ID from the request context
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

// TenantMiddleware resolves the tenant header into the request context
func TenantMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := strings.TrimSpace(c.Request().Header.Get(TenantHeader))
		if raw == "" {
			return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Tenant not found", nil))
		}
		tenantID, err := uuid.Parse(raw)
		if err != nil {
			return SendClientError(c, "Invalid tenant id")
		}
		c.SetRequest(c.Request().WithContext(WithTenantID(c.Request().Context(), tenantID)))
		return next(c)
	}
}

// ValidateSortOrder normalizes sort order parameters
func ValidateSortOrder(sortOrder string) string {
	if strings.ToLower(sortOrder) == "desc" {
		return "desc"
	}
	return "asc" // Default to asc
}
