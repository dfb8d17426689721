package graphqlserver

import (
	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"giftshop.GO/graphql"
	"giftshop.GO/graphql/registry"
	"giftshop.GO/graphql/resolvers"
)

// NewSchema parses the schema and binds it to the registered Query resolver.
func NewSchema(deps resolvers.Deps) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), registry.GetQueryResolver(deps), gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
