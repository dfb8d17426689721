package resolvers

import (
	"context"

	"giftshop.GO/graphql"
	gqlmodels "giftshop.GO/graphql/models"
)

func (r *QueryResolver) Collections(ctx context.Context) ([]*gqlmodels.Collection, error) {
	cs := r.engine.Collections()
	out := make([]*gqlmodels.Collection, len(cs))
	for i, c := range cs {
		out[i] = toCollection(c)
	}
	return out, nil
}

// Collection returns nil for an unknown id.
func (r *QueryResolver) Collection(ctx context.Context, args graphql.IDArgs) (*gqlmodels.Collection, error) {
	c, ok := r.engine.Collection(string(args.ID))
	if !ok {
		return nil, nil
	}
	return toCollection(c), nil
}

// CollectionProducts searches inside one bundle.
func (r *QueryResolver) CollectionProducts(ctx context.Context, args graphql.CollectionProductsArgs) (*gqlmodels.ProductPage, error) {
	f, err := validFilter(args.Filter)
	if err != nil {
		return nil, err
	}
	products, err := r.engine.CollectionProducts(string(args.ID), f)
	if err != nil {
		return nil, err
	}
	return toPage(products, currentPage(args.CurrentPage), pageSize(ctx, args.PageSize)), nil
}
