package resolvers

import (
	"context"

	"giftshop.GO/catalog"
	"giftshop.GO/graphql"
	gqlmodels "giftshop.GO/graphql/models"
)

// pageSize is the explicit size when given, else the request screen's.
func pageSize(ctx context.Context, p *int32) int {
	if p != nil && *p > 0 {
		return int(*p)
	}
	return graphql.ScreenFromContext(ctx).PageSize()
}

func currentPage(p int32) int {
	if p > 0 {
		return int(p)
	}
	return 1
}

// toPage shows pages 1..page of filtered, as the storefront's growing list
// would after that many loads.
func toPage(filtered []catalog.Product, page, size int) *gqlmodels.ProductPage {
	st := catalog.PageOf(filtered, page, size)
	return &gqlmodels.ProductPage{
		Items:       toProducts(st.Items),
		TotalCount:  int32(st.Total),
		PageSize:    int32(st.PageSize),
		CurrentPage: int32(st.CurrentPage),
		HasMore:     st.HasMore,
	}
}
