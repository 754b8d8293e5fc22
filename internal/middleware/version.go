package middleware

import (
	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version string `json:"version"`
	Message string `json:"message,omitempty"`
}

// VersionMiddleware stamps responses with the console API version
type VersionMiddleware struct {
	current APIVersion
}

func NewVersionMiddleware(version string) *VersionMiddleware {
	return &VersionMiddleware{
		current: APIVersion{
			Version: version,
			Message: "Current stable API version",
		},
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", vm.current.Version)
			h.Set("X-API-Message", vm.current.Message)
			return next(c)
		}
	}
}
