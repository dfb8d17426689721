package app

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"giftshop.GO/api"
	_ "giftshop.GO/api/catalog"
	_ "giftshop.GO/api/graphql"
	_ "giftshop.GO/api/health"
	_ "giftshop.GO/api/product"
	"giftshop.GO/core/auth"
)

// NewServer builds the echo instance: /api behind auth, plus the root routes
// (/graphql, /health, /metrics).
func NewServer(a *App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(requestLogger(a.Log))
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())
	e.Use(requestDuration)

	d := a.Deps()
	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware(a.Config))
	api.ApplyModules(apiGroup, d)
	api.ApplyRoutes(e, d)
	return e
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	log = log.Named("http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

func requestDuration(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		c.Response().Before(func() {
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
		})
		return next(c)
	}
}
