package resolvers

import (
	gql "github.com/graph-gophers/graphql-go"

	"giftshop.GO/catalog"
	gqlmodels "giftshop.GO/graphql/models"
)

func toProduct(p catalog.Product) *gqlmodels.Product {
	return &gqlmodels.Product{
		ID:                 gql.ID(p.ID),
		Name:               p.Name,
		Description:        optional(p.Description),
		Price:              p.Price.Float(),
		OriginalPrice:      p.OriginalPrice.Float(),
		DiscountPercentage: int32(p.DiscountPercentage),
		HasDiscount:        p.HasDiscount(),
		Image:              optional(p.Image),
		Category:           optional(p.Category),
		Categories:         nonNil(p.Categories),
		Tags:               nonNil(p.Tags),
		VendorID:           optional(p.VendorID),
		VendorName:         optional(p.VendorName),
	}
}

func toProducts(in []catalog.Product) []*gqlmodels.Product {
	out := make([]*gqlmodels.Product, len(in))
	for i, p := range in {
		out[i] = toProduct(p)
	}
	return out
}

func toCollection(c catalog.Collection) *gqlmodels.Collection {
	return &gqlmodels.Collection{
		ID:          gql.ID(c.ID),
		Title:       c.Title,
		Color:       optional(c.Color),
		Category:    optional(c.Category),
		Description: optional(c.Description),
		Products:    toProducts(c.Products),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
