package catalog

import (
	"math"
	"strings"
)

// Normalize builds the in-app product from a backend row and its variations.
//
// When any variation uses the combination format, the cheapest combination
// (after its own discount) sets the price and the base price is ignored.
// Otherwise the cheapest of the base price and the flat/modifier variations is
// taken and the product-level discount applied to it. Per-variation discounts
// on that path are decoded but not applied.
func Normalize(raw RawProduct, vars []RawVariation) Product {
	p := Product{
		ID:          strings.TrimSpace(raw.ID),
		Name:        strings.TrimSpace(raw.Name),
		Description: raw.Description,
		Image:       DecodeImageField(raw.Images).Primary(),
		Tags:        compact(raw.Tags),
		VendorID:    raw.VendorID,
	}
	if p.Image == "" {
		p.Image = DecodeImageField(raw.ImageURL).Primary()
	}
	p.Categories = compact(append([]string{raw.CategoryID}, raw.CategoryIDs...))
	if len(p.Categories) > 0 {
		p.Category = p.Categories[0]
	}

	base := FromFloat(raw.Price)
	var combos []Combo
	pricings := make([]VariationPricing, 0, len(vars))
	for _, v := range vars {
		if v.Inactive {
			continue
		}
		pr := DecodeVariationPricing(v)
		if c, ok := pr.(Combinations); ok {
			combos = append(combos, c...)
			continue
		}
		pricings = append(pricings, pr)
	}

	if len(combos) > 0 {
		p.Price, p.OriginalPrice, p.DiscountPercentage = resolveCombinations(base, combos)
		return p
	}

	lowest := base
	for _, pr := range pricings {
		var candidate Money
		switch v := pr.(type) {
		case FlatPrice:
			candidate = v.Price
		case PriceModifier:
			candidate = base.Add(v.Delta)
		default:
			continue
		}
		if candidate > 0 && (lowest <= 0 || candidate < lowest) {
			lowest = candidate
		}
	}
	pct := clampPercent(raw.DiscountPercentage)
	p.OriginalPrice = lowest
	p.Price = lowest.Discounted(pct)
	p.DiscountPercentage = pct
	return p
}

// resolveCombinations returns the lowest final price, the lowest pre-discount
// price and the discount of the winning combination.
func resolveCombinations(base Money, combos []Combo) (price, original Money, pct int) {
	first := true
	for _, c := range combos {
		orig := base.Add(delta(c.PriceModifier))
		if c.Price != nil && finite(*c.Price) {
			orig = FromFloat(*c.Price)
		}
		d := clampPercent(int(math.Round(c.DiscountPercentage)))
		final := orig.Discounted(d)
		if first || final < price {
			price, pct = final, d
		}
		if first || orig < original {
			original = orig
		}
		first = false
	}
	return price, original, pct
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
