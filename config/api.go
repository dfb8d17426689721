package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Storefront reads and browse sessions are public; only admin routes need auth.
	return []string{
		"/health",
		"/metrics",
		"/graphql",
		"/playground",
		"/api/catalog/products",
		"/api/catalog/products/:id",
		"/api/catalog/deals",
		"/api/catalog/search",
		"/api/catalog/collections",
		"/api/catalog/collections/:id/products",
		"/api/catalog/recipients/:id/recommendations",
		"/api/catalog/sessions",
		"/api/catalog/sessions/:id",
		"/api/catalog/sessions/:id/more",
	}
}
