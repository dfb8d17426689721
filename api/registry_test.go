package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRegistry_Register_Apply(t *testing.T) {
	RegisterGET("/test/registry/check", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	e := echo.New()
	ApplyRoutes(e, nil)

	req := httptest.NewRequest(http.MethodGet, "/test/registry/check", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRegistry_ApplyModules_PassesDeps(t *testing.T) {
	var got *Deps
	RegisterModule(func(g *echo.Group, d *Deps) {
		got = d
		g.GET("/test/module", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	})

	e := echo.New()
	d := &Deps{}
	ApplyModules(e.Group("/api"), d)
	if got != d {
		t.Fatal("module did not receive the deps")
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/test/module", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic when registering after ApplyModules")
		}
	}()
	RegisterModule(func(*echo.Group, *Deps) {})
}
