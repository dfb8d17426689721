package graphql

import (
	"bytes"
	"io"
	"net/http"

	"github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo/v4"

	"giftshop.GO/api"
	graphqlpkg "giftshop.GO/graphql"
	"giftshop.GO/graphql/resolvers"
	"giftshop.GO/graphqlserver"
)

func init() {
	api.RegisterRoute(RegisterGraphQLRoutes)
}

// RegisterGraphQLRoutes mounts /graphql and /playground over the catalog engine.
func RegisterGraphQLRoutes(e *echo.Echo, d *api.Deps) {
	deps := resolvers.Deps{}
	if d != nil {
		deps.Search = d.Search
		deps.Logger = d.Logger
		if d.Catalog != nil {
			deps.Engine = d.Catalog.Engine()
		}
		if d.Sessions != nil {
			deps.Shuffler = d.Sessions.Shuffler()
		}
	}
	schema, err := graphqlserver.NewSchema(deps)
	if err != nil {
		panic("graphql schema: " + err.Error())
	}
	registerRoutes(e, schema)
}

// RegisterGraphQLRoutesWithSchema registers /graphql with a custom schema (for tests with mocks).
func RegisterGraphQLRoutesWithSchema(e *echo.Echo, schema *graphql.Schema) {
	registerRoutes(e, schema)
}

func registerRoutes(e *echo.Echo, schema *graphql.Schema) {
	handler := graphqlserver.Handler(schema)
	h := screenContextMiddleware(handler)
	e.POST("/graphql", echo.WrapHandler(h))
	e.GET("/graphql", echo.WrapHandler(h))
	e.GET("/playground", echo.WrapHandler(playgroundHandler()))
}

// screenContextMiddleware resolves the Screen the request renders for.
func screenContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Method == http.MethodPost {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		ctx := graphqlpkg.WithScreen(r.Context(), graphqlpkg.GetScreen(r, body))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func playgroundHandler() http.Handler {
	html := `<!DOCTYPE html>
<html>
<head>
	<title>GraphQL Playground</title>
	<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css"/>
</head>
<body>
	<div id="root"/>
	<script src="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
	<script>window.addEventListener('load', function() {
		GraphQLPlayground.init({ endpoint: '/graphql' });
	})</script>
</body>
</html>`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	})
}
