package product

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"giftshop.GO/api"
	productService "giftshop.GO/service/product"
)

func init() {
	api.RegisterModule(RegisterProductRoutes)
}

func RegisterProductRoutes(apiGroup *echo.Group, d *api.Deps) {
	if d == nil || d.DB == nil {
		return
	}
	g := apiGroup.Group("/products")

	// POST /api/products/import: CSV upsert (auth required via /api middleware).
	// The CSV is the request body or the multipart field "file".
	g.POST("/import", func(c echo.Context) error {
		start := time.Now()

		var r io.Reader = c.Request().Body
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			defer f.Close()
			r = f
		}
		batch, _ := strconv.Atoi(c.QueryParam("batch_size"))

		res, err := productService.ImportProducts(d.DB, r, productService.ImportOptions{
			BatchSize:      batch,
			SkipVariations: c.QueryParam("skip_variations") == "true",
		})
		duration := time.Since(start).Milliseconds()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "request_duration_ms": duration})
		}

		body := echo.Map{
			"rows":                res.TotalRows,
			"created":             res.Created,
			"updated":             res.Updated,
			"skipped":             res.Skipped,
			"variations":          res.Variations,
			"warnings":            res.Warnings,
			"request_duration_ms": duration,
		}
		if c.QueryParam("refresh") == "true" && d.Catalog != nil {
			if _, err := d.Catalog.Refresh(c.Request().Context()); err != nil {
				if d.Logger != nil {
					d.Logger.Warn("refresh after import failed", zap.Error(err))
				}
				body["refresh_error"] = err.Error()
			} else {
				body["stats"] = d.Catalog.Stats()
			}
		}
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, body)
	})
}
