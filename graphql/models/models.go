package models

import gql "github.com/graph-gophers/graphql-go"

// --- Product ---

type Product struct {
	ID                 gql.ID   `json:"id"`
	Name               string   `json:"name"`
	Description        *string  `json:"description,omitempty"`
	Price              float64  `json:"price"`
	OriginalPrice      float64  `json:"original_price"`
	DiscountPercentage int32    `json:"discount_percentage"`
	HasDiscount        bool     `json:"has_discount"`
	Image              *string  `json:"image,omitempty"`
	Category           *string  `json:"category,omitempty"`
	Categories         []string `json:"categories"`
	Tags               []string `json:"tags"`
	VendorID           *string  `json:"vendor_id,omitempty"`
	VendorName         *string  `json:"vendor_name,omitempty"`
}

type ProductPage struct {
	Items       []*Product `json:"items"`
	TotalCount  int32      `json:"total_count"`
	PageSize    int32      `json:"page_size"`
	CurrentPage int32      `json:"current_page"`
	HasMore     bool       `json:"has_more"`
}

// --- Collection ---

type Collection struct {
	ID          gql.ID     `json:"id"`
	Title       string     `json:"title"`
	Color       *string    `json:"color,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Description *string    `json:"description,omitempty"`
	Products    []*Product `json:"products"`
}
