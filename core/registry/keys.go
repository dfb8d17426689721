package registry

// Keys for GlobalRegistry. Extension registries (cmd, cron, api, routes,
// graphql) are filled during init and locked when applied.
const (
	KeyRegistryCmd     = "registry:cmd"
	KeyRegistryCron    = "registry:cron"
	KeyRegistryAPI     = "registry:api"
	KeyRegistryRoutes  = "registry:routes"
	KeyRegistryGraphQL = "registry:graphql"
)
