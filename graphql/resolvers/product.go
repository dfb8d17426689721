package resolvers

import (
	"context"
	"fmt"

	"giftshop.GO/catalog"
	"giftshop.GO/graphql"
	gqlmodels "giftshop.GO/graphql/models"
)

func validFilter(args *graphql.ProductFilter) (catalog.FilterState, error) {
	f := args.FilterState()
	if !catalog.IsValidSort(f.Sort) {
		return f, fmt.Errorf("invalid sort %q", f.Sort)
	}
	return f, nil
}

// Products is the home/search feed.
func (r *QueryResolver) Products(ctx context.Context, args graphql.PageArgs) (*gqlmodels.ProductPage, error) {
	f, err := validFilter(args.Filter)
	if err != nil {
		return nil, err
	}
	return toPage(r.engine.Query(f), currentPage(args.CurrentPage), pageSize(ctx, args.PageSize)), nil
}

// Deals lists discounted products; without a sort they come shuffled.
func (r *QueryResolver) Deals(ctx context.Context, args graphql.PageArgs) (*gqlmodels.ProductPage, error) {
	f, err := validFilter(args.Filter)
	if err != nil {
		return nil, err
	}
	size := catalog.ScreenDeals.PageSize()
	if args.PageSize != nil && *args.PageSize > 0 {
		size = int(*args.PageSize)
	}
	return toPage(r.engine.Deals(f, r.shuffler), currentPage(args.CurrentPage), size), nil
}

// Product returns nil for an unknown id.
func (r *QueryResolver) Product(ctx context.Context, args graphql.IDArgs) (*gqlmodels.Product, error) {
	p, ok := r.engine.Product(string(args.ID))
	if !ok {
		return nil, nil
	}
	return toProduct(p), nil
}

// Recommendations suggests products for a saved recipient.
func (r *QueryResolver) Recommendations(ctx context.Context, args graphql.RecommendationsArgs) ([]*gqlmodels.Product, error) {
	limit := 0
	if args.Limit != nil {
		limit = int(*args.Limit)
	}
	products, err := r.engine.Recommend(string(args.RecipientID), limit)
	if err != nil {
		return nil, err
	}
	return toProducts(products), nil
}
