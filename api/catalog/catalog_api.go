package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"giftshop.GO/api"
	"giftshop.GO/catalog"
	catalogService "giftshop.GO/service/catalog"
	"giftshop.GO/service/search"
)

func init() {
	api.RegisterModule(RegisterCatalogRoutes)
}

type handler struct {
	svc      *catalogService.Service
	sessions *catalogService.Sessions
	search   *search.SearchService
	log      *zap.Logger
}

// sessionRequest opens a browse session or replaces its filter.
type sessionRequest struct {
	Screen string              `json:"screen"`
	Filter catalog.FilterState `json:"filter"`
}

// RegisterCatalogRoutes mounts the storefront feeds under /api/catalog.
// Reads and sessions are public; refresh and vendor cache are admin routes.
func RegisterCatalogRoutes(apiGroup *echo.Group, d *api.Deps) {
	if d == nil || d.Catalog == nil {
		return
	}
	h := &handler{svc: d.Catalog, sessions: d.Sessions, search: d.Search, log: d.Logger}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.sessions == nil {
		h.sessions = catalogService.NewSessions(d.Catalog.Engine(), catalog.NewShuffler(time.Now().UnixNano()), 0)
	}

	g := apiGroup.Group("/catalog")
	g.GET("/products", h.products)
	g.GET("/products/:id", h.product)
	g.GET("/deals", h.deals)
	g.GET("/search", h.searchProducts)
	g.GET("/collections", h.collections)
	g.GET("/collections/:id/products", h.collectionProducts)
	g.GET("/recipients/:id/recommendations", h.recommendations)

	g.POST("/sessions", h.openSession)
	g.GET("/sessions/:id", h.sessionState)
	g.PUT("/sessions/:id", h.updateSession)
	g.POST("/sessions/:id/more", h.loadMore)
	g.DELETE("/sessions/:id", h.closeSession)

	g.POST("/refresh", h.refresh)
	g.GET("/stats", h.stats)
	g.DELETE("/vendors/cache", h.invalidateVendors)
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, catalogService.ErrSessionNotFound),
		errors.Is(err, catalog.ErrCollectionNotFound),
		errors.Is(err, catalog.ErrRecipientNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalogService.ErrInvalidSort):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c echo.Context, status int, err error) error {
	return c.JSON(status, echo.Map{"error": err.Error()})
}

func (h *handler) page(c echo.Context, results []catalog.Product, screen catalog.Screen) error {
	page, err := intParam(c, "page", 1)
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	size, err := intParam(c, "page_size", screen.PageSize())
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusOK, catalog.PageOf(results, page, size))
}

func (h *handler) validFilter(c echo.Context) (catalog.FilterState, error) {
	f, err := filterFromQuery(c)
	if err != nil {
		return f, err
	}
	if !catalog.IsValidSort(f.Sort) {
		return f, catalogService.ErrInvalidSort
	}
	return f, nil
}

// GET /api/catalog/products: home/search feed
func (h *handler) products(c echo.Context) error {
	f, err := h.validFilter(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	return h.page(c, h.svc.Engine().Query(f), catalog.ParseScreen(c.QueryParam("screen")))
}

// GET /api/catalog/products/:id
func (h *handler) product(c echo.Context) error {
	p, ok := h.svc.Engine().Product(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	return c.JSON(http.StatusOK, p)
}

// GET /api/catalog/deals: discounted products, shuffled unless sorted
func (h *handler) deals(c echo.Context) error {
	f, err := h.validFilter(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	return h.page(c, h.svc.Engine().Deals(f, h.sessions.Shuffler()), catalog.ScreenDeals)
}

// GET /api/catalog/search?q=
func (h *handler) searchProducts(c echo.Context) error {
	q := c.QueryParam("q")
	size, err := intParam(c, "size", catalog.ScreenSearch.PageSize())
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	source := "engine"
	var results []catalog.Product
	if h.search != nil && h.search.Enabled() {
		ids, err := h.search.Search(c.Request().Context(), q, size)
		if err != nil {
			h.log.Warn("search failed, using engine", zap.String("query", q), zap.Error(err))
		} else {
			results, source = search.Resolve(h.svc.Engine(), ids), "elasticsearch"
		}
	}
	if source == "engine" {
		results = h.svc.Engine().Query(catalog.FilterState{Query: q})
		if size > 0 && len(results) > size {
			results = results[:size]
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": results, "source": source})
}

// GET /api/catalog/collections
func (h *handler) collections(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Engine().Collections())
}

// GET /api/catalog/collections/:id/products: search inside a bundle
func (h *handler) collectionProducts(c echo.Context) error {
	f, err := h.validFilter(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	results, err := h.svc.Engine().CollectionProducts(c.Param("id"), f)
	if err != nil {
		return fail(c, errorStatus(err), err)
	}
	return h.page(c, results, catalog.ScreenBundle)
}

// GET /api/catalog/recipients/:id/recommendations?limit=
func (h *handler) recommendations(c echo.Context) error {
	limit, err := intParam(c, "limit", 0)
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	products, err := h.svc.Engine().Recommend(c.Param("id"), limit)
	if err != nil {
		return fail(c, errorStatus(err), err)
	}
	return c.JSON(http.StatusOK, products)
}

// POST /api/catalog/sessions
func (h *handler) openSession(c echo.Context) error {
	var body sessionRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	st, err := h.sessions.Open(catalog.ParseScreen(body.Screen), body.Filter)
	if err != nil {
		return fail(c, errorStatus(err), err)
	}
	return c.JSON(http.StatusCreated, st)
}

// GET /api/catalog/sessions/:id
func (h *handler) sessionState(c echo.Context) error {
	st, err := h.sessions.State(c.Param("id"))
	if err != nil {
		return fail(c, errorStatus(err), err)
	}
	return c.JSON(http.StatusOK, st)
}

// PUT /api/catalog/sessions/:id: new filter, back to page 1
func (h *handler) updateSession(c echo.Context) error {
	var body sessionRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	st, err := h.sessions.Update(c.Param("id"), body.Filter)
	if err != nil {
		return fail(c, errorStatus(err), err)
	}
	return c.JSON(http.StatusOK, st)
}

// POST /api/catalog/sessions/:id/more: end of list reached
func (h *handler) loadMore(c echo.Context) error {
	start := time.Now()
	st, err := h.sessions.LoadMore(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, errorStatus(err), err)
	}
	c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
	return c.JSON(http.StatusOK, st)
}

// DELETE /api/catalog/sessions/:id
func (h *handler) closeSession(c echo.Context) error {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		return fail(c, errorStatus(err), err)
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /api/catalog/refresh: admin
func (h *handler) refresh(c echo.Context) error {
	start := time.Now()
	_, err := h.svc.Refresh(c.Request().Context())
	duration := time.Since(start).Milliseconds()
	if err != nil {
		h.log.Error("manual refresh failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error(), "stats": h.svc.Stats(), "request_duration_ms": duration})
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": h.svc.Stats(), "request_duration_ms": duration})
}

// GET /api/catalog/stats: admin
func (h *handler) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"stats": h.svc.Stats(), "open_sessions": h.sessions.Len()})
}

// DELETE /api/catalog/vendors/cache?id=... : admin; no id clears all
func (h *handler) invalidateVendors(c echo.Context) error {
	ids := c.QueryParams()["id"]
	h.svc.InvalidateVendors(c.Request().Context(), ids...)
	return c.NoContent(http.StatusNoContent)
}
