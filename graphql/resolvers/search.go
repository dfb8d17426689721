package resolvers

import (
	"context"

	"go.uber.org/zap"

	"giftshop.GO/catalog"
	"giftshop.GO/graphql"
	gqlmodels "giftshop.GO/graphql/models"
	"giftshop.GO/service/search"
)

// Search ranks through Elasticsearch when configured and falls back to the
// engine's name match when it is absent or fails.
func (r *QueryResolver) Search(ctx context.Context, args graphql.SearchArgs) ([]*gqlmodels.Product, error) {
	size := int(args.Size)
	if size <= 0 {
		size = 20
	}
	if r.search != nil && r.search.Enabled() {
		ids, err := r.search.Search(ctx, args.Query, size)
		if err == nil {
			return toProducts(search.Resolve(r.engine, ids)), nil
		}
		r.log.Warn("search failed, using engine", zap.String("query", args.Query), zap.Error(err))
	}
	products := r.engine.Query(catalog.FilterState{Query: args.Query})
	if len(products) > size {
		products = products[:size]
	}
	return toProducts(products), nil
}
