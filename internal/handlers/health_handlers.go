package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
)

// Pinger is anything the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers reports the state of the console's backing services
type HealthHandlers struct {
	db      Pinger
	cache   Pinger
	clock   clockwork.Clock
	started time.Time
	version string
}

func NewHealthHandlers(db, cache Pinger, clock clockwork.Clock, version string) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		cache:   cache,
		clock:   clock,
		started: clock.Now(),
		version: version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// HealthCheck pings the database and cache. A failing cache only degrades
// the console; a failing database makes it unavailable.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	now := h.clock.Now()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: now.UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Uptime:    now.Sub(h.started).Truncate(time.Second).String(),
		Version:   h.version,
	}

	statusCode := http.StatusOK
	if err := ping(ctx, h.db); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "unavailable"
		statusCode = http.StatusServiceUnavailable
	} else {
		health.Services["database"] = "healthy"
	}

	if err := ping(ctx, h.cache); err != nil {
		health.Services["cache"] = "unhealthy"
		if statusCode == http.StatusOK {
			health.Status = "degraded"
		}
	} else {
		health.Services["cache"] = "healthy"
	}

	return c.JSON(statusCode, health)
}

func ping(ctx context.Context, p Pinger) error {
	if p == nil {
		return nil
	}
	return p.Ping(ctx)
}
