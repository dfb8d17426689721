package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"giftshop.GO/catalog"
	catalogEntity "giftshop.GO/model/entity/catalog"
)

// toRawProduct maps a product row to the engine's raw shape. Malformed JSON
// columns decode to empty lists.
func toRawProduct(p catalogEntity.Product) catalog.RawProduct {
	return catalog.RawProduct{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Images:             p.Images,
		ImageURL:           p.ImageURL,
		Tags:               jsonStrings(p.Tags),
		CategoryID:         p.CategoryID,
		CategoryIDs:        jsonStrings(p.CategoryIDs),
		VendorID:           p.VendorID,
	}
}

func toRawVariation(v catalogEntity.ProductVariation) catalog.RawVariation {
	return catalog.RawVariation{
		ProductID:     v.ProductID,
		Price:         v.Price,
		PriceModifier: v.PriceModifier,
		Attributes:    v.Attributes,
		Inactive:      !v.IsActive,
	}
}

func toRecipient(r catalogEntity.Recipient) catalog.Recipient {
	return catalog.Recipient{
		ID:                   r.ID,
		FirstName:            r.FirstName,
		Hobbies:              r.Hobbies,
		Sports:               r.Sports,
		FavoriteColors:       r.FavoriteColors,
		StylePreferences:     r.StylePreferences,
		GiftTypePreference:   r.GiftTypePreference,
		PersonalityLifestyle: r.PersonalityLifestyle,
		RecentLifeEvents:     r.RecentLifeEvents,
	}
}

// toCollection copies the bundle's products under bundle-scoped ids
// (collectionID-position-productID). Items whose product is unknown are
// skipped.
func toCollection(c catalogEntity.Collection, byID map[string]catalog.Product) catalog.Collection {
	out := catalog.Collection{
		ID:          c.ID,
		Title:       c.Title,
		Color:       c.Color,
		Category:    c.Category,
		Description: c.Description,
		Products:    make([]catalog.Product, 0, len(c.Items)),
	}
	for i, item := range c.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		p.ID = BundleProductID(c.ID, i, item.ProductID)
		out.Products = append(out.Products, p)
	}
	return out
}

// BundleProductID builds the id a product carries inside a bundle.
func BundleProductID(collectionID string, position int, productID string) string {
	return fmt.Sprintf("%s-%d-%s", collectionID, position, productID)
}

func jsonStrings(raw datatypes.JSON) []string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}
