package handlers

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"merchconsole/internal/common"
)

// respondError maps service errors onto the console's error envelopes
func respondError(c echo.Context, log zerolog.Logger, err error) error {
	var leafErrs common.LeafErrors
	var leafErr *common.LeafError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &leafErrs):
		if isStale(leafErrs) {
			return common.SendConflictError(c, "Product changed since the edit started", leafErrs.Details())
		}
		return common.SendValidationErrors(c, leafErrs.Details())
	case errors.As(err, &leafErr):
		details := common.LeafErrors{leafErr}.Details()
		if isStale(common.LeafErrors{leafErr}) {
			return common.SendConflictError(c, "Product changed since the edit started", details)
		}
		return common.SendValidationErrors(c, details)
	case errors.Is(err, common.ErrEmptySelection), errors.Is(err, common.ErrNothingToSubmit):
		return common.SendClientError(c, err.Error())
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return common.SendServerError(c, "Internal server error")
}

// isStale reports whether any failure means the session no longer matches the product
func isStale(errs common.LeafErrors) bool {
	for _, le := range errs {
		if errors.Is(le.Err, common.ErrShapeMismatch) || errors.Is(le.Err, common.ErrLeafNotFound) {
			return true
		}
	}
	return false
}

func tenantOf(c echo.Context) (uuid.UUID, bool) {
	return common.GetTenantIDFromContext(c.Request().Context())
}
