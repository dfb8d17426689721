// Package catalog is the in-memory catalog query engine behind the storefront
// feeds: product normalization, recipient recommendations, filtering and
// sorting, and progressive pagination over a fetched snapshot.
package catalog

import "time"

// Product is the normalized, read-only shape every feed works with.
type Product struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Price              Money    `json:"price"`
	OriginalPrice      Money    `json:"original_price"`
	DiscountPercentage int      `json:"discount_percentage"`
	Image              string   `json:"image"`
	Category           string   `json:"category,omitempty"`
	Categories         []string `json:"categories,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	VendorID           string   `json:"vendor_id,omitempty"`
	VendorName         string   `json:"vendor_name,omitempty"`
}

// HasDiscount reports whether the product is sold below its original price.
func (p Product) HasDiscount() bool {
	return p.DiscountPercentage > 0 && p.Price < p.OriginalPrice
}

// Collection is a curated bundle of products. Products keep whatever ids the
// backend assigned in the bundle context.
type Collection struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Color       string    `json:"color,omitempty"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Products    []Product `json:"products"`
}

// Recipient is a saved gift profile. Every field is optional free text.
type Recipient struct {
	ID                   string `json:"id"`
	FirstName            string `json:"first_name"`
	Hobbies              string `json:"hobbies,omitempty"`
	Sports               string `json:"sports,omitempty"`
	FavoriteColors       string `json:"favorite_colors,omitempty"`
	StylePreferences     string `json:"style_preferences,omitempty"`
	GiftTypePreference   string `json:"gift_type_preference,omitempty"`
	PersonalityLifestyle string `json:"personality_lifestyle,omitempty"`
	RecentLifeEvents     string `json:"recent_life_events,omitempty"`
}

// Snapshot is one fetch of the backend catalog.
type Snapshot struct {
	Products    []Product    `json:"products"`
	Collections []Collection `json:"collections"`
	Recipients  []Recipient  `json:"recipients"`
	FetchedAt   time.Time    `json:"fetched_at"`
}

// RawProduct is a product row as the backend returns it.
type RawProduct struct {
	ID                 string
	Name               string
	Description        string
	Price              float64
	DiscountPercentage int
	Images             string
	ImageURL           string
	Tags               []string
	CategoryID         string
	CategoryIDs        []string
	VendorID           string
}

// RawVariation is a product variation row. Attributes is the untouched JSON
// payload and may be empty or malformed.
type RawVariation struct {
	ProductID     string
	Price         *float64
	PriceModifier *float64
	Attributes    string
	Inactive      bool
}
