package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"giftshop.GO/api"
)

func init() {
	api.RegisterRoute(RegisterHealthRoutes)
}

// RegisterHealthRoutes mounts /health and, when metrics are enabled, /metrics.
func RegisterHealthRoutes(e *echo.Echo, d *api.Deps) {
	e.GET("/health", func(c echo.Context) error {
		body := echo.Map{"status": "ok"}
		status := http.StatusOK
		if d != nil && d.Catalog != nil {
			st := d.Catalog.Stats()
			body["catalog"] = st
			// an engine that never loaded a snapshot cannot serve feeds
			if st.FetchedAt.IsZero() {
				body["status"] = "degraded"
			}
		}
		if d != nil && d.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
				body["status"] = "degraded"
				body["database"] = "unreachable"
				status = http.StatusServiceUnavailable
			} else {
				body["database"] = "ok"
			}
		}
		return c.JSON(status, body)
	})

	if d != nil && d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
}
