package graphql

import (
	"context"

	gqlmodels "giftshop.GO/graphql/models"
)

// QueryResolver is the interface for query resolvers (used by resolvers package).
type QueryResolver interface {
	Products(ctx context.Context, args PageArgs) (*gqlmodels.ProductPage, error)
	Deals(ctx context.Context, args PageArgs) (*gqlmodels.ProductPage, error)
	Product(ctx context.Context, args IDArgs) (*gqlmodels.Product, error)
	Collections(ctx context.Context) ([]*gqlmodels.Collection, error)
	Collection(ctx context.Context, args IDArgs) (*gqlmodels.Collection, error)
	CollectionProducts(ctx context.Context, args CollectionProductsArgs) (*gqlmodels.ProductPage, error)
	Recommendations(ctx context.Context, args RecommendationsArgs) ([]*gqlmodels.Product, error)
	Search(ctx context.Context, args SearchArgs) ([]*gqlmodels.Product, error)
	Extension(ctx context.Context, args ExtensionArgs) (*string, error)
}
