package catalog

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// VariationPricing is the decoded pricing rule of a single variation.
type VariationPricing interface {
	isVariationPricing()
}

// FlatPrice replaces the base price.
type FlatPrice struct {
	Price              Money
	DiscountPercentage int
}

// PriceModifier is added to the base price.
type PriceModifier struct {
	Delta              Money
	DiscountPercentage int
}

// Combinations lists the selectable attribute combinations of a variation.
type Combinations []Combo

// NoPricing marks a variation that carries nothing usable.
type NoPricing struct{}

func (FlatPrice) isVariationPricing()     {}
func (PriceModifier) isVariationPricing() {}
func (Combinations) isVariationPricing()  {}
func (NoPricing) isVariationPricing()     {}

// Combo is one concrete configuration (for example size+color).
type Combo struct {
	Price              *float64
	PriceModifier      float64
	DiscountPercentage float64
	StockQuantity      int
}

// variationAttrs is the flat attribute layout; combination payloads reuse
// Format and Combinations.
type variationAttrs struct {
	Format             string
	Combinations       []interface{}
	Price              *float64
	PriceModifier      *float64
	DiscountPercentage float64
}

const formatCombination = "combination"

// DecodeVariationPricing turns a variation row into its pricing rule. Row-level
// price fields win over the same keys inside attributes.
func DecodeVariationPricing(v RawVariation) VariationPricing {
	attrs := decodeAttrs(v.Attributes)

	if strings.EqualFold(attrs.Format, formatCombination) {
		combos := make(Combinations, 0, len(attrs.Combinations))
		for _, item := range attrs.Combinations {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			var c Combo
			if err := decodeLoose(m, &c); err != nil {
				continue
			}
			combos = append(combos, c)
		}
		return combos
	}

	discount := clampPercent(int(math.Round(attrs.DiscountPercentage)))
	price, modifier := v.Price, v.PriceModifier
	if price == nil {
		price = attrs.Price
	}
	if modifier == nil {
		modifier = attrs.PriceModifier
	}
	switch {
	case price != nil && finite(*price):
		return FlatPrice{Price: FromFloat(*price), DiscountPercentage: discount}
	case modifier != nil && finite(*modifier):
		return PriceModifier{Delta: delta(*modifier), DiscountPercentage: discount}
	}
	return NoPricing{}
}

func decodeAttrs(raw string) variationAttrs {
	var attrs variationAttrs
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return attrs
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
		return attrs
	}
	if err := decodeLoose(m, &attrs); err != nil {
		return variationAttrs{}
	}
	return attrs
}

// decodeLoose maps backend payloads that mix camelCase and snake_case keys and
// sometimes quote their numbers.
func decodeLoose(in map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		MatchName: func(mapKey, fieldName string) bool {
			return foldKey(mapKey) == foldKey(fieldName)
		},
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func foldKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// delta converts a signed modifier to cents.
func delta(v float64) Money {
	if !finite(v) {
		return 0
	}
	return Money(math.Round(v * 100))
}
