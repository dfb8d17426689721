package product

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"

	catalogEntity "giftshop.GO/model/entity/catalog"
)

var variationColumns = map[string]bool{
	"variation_price": true, "variation_price_modifier": true,
	"variation_attributes": true, "variation_active": true,
}

// variationData holds collected variation rows ready to flush.
type variationData struct {
	rows     []catalogEntity.ProductVariation
	products []string
	inactive []int
	warnings []string
}

// collectVariations buffers one variation per row that fills any variation
// column. Every imported product is listed in products so its old variations
// get replaced, even when the file now has none for it.
func collectVariations(rows [][]string, colIndex map[string]int, ids map[string]int) *variationData {
	d := &variationData{}
	hasAny := false
	for col := range variationColumns {
		if _, ok := colIndex[col]; ok {
			hasAny = true
			break
		}
	}
	if !hasAny {
		return d
	}
	for id := range ids {
		d.products = append(d.products, id)
	}

	for _, row := range rows {
		id := cell(row, colIndex, "id")
		if _, ok := ids[id]; !ok {
			continue
		}
		price := cell(row, colIndex, "variation_price")
		modifier := cell(row, colIndex, "variation_price_modifier")
		attrs := cell(row, colIndex, "variation_attributes")
		if price == "" && modifier == "" && attrs == "" {
			continue
		}

		item := catalogEntity.ProductVariation{ProductID: id, Attributes: attrs, IsActive: true}
		if price != "" {
			fv, err := strconv.ParseFloat(price, 64)
			if err != nil {
				d.warnings = append(d.warnings, fmt.Sprintf("id=%s: invalid variation_price %q", id, price))
				continue
			}
			item.Price = &fv
		}
		if modifier != "" {
			fv, err := strconv.ParseFloat(modifier, 64)
			if err != nil {
				d.warnings = append(d.warnings, fmt.Sprintf("id=%s: invalid variation_price_modifier %q", id, modifier))
				continue
			}
			item.PriceModifier = &fv
		}
		if v := cell(row, colIndex, "variation_active"); v != "" {
			if active, err := strconv.ParseBool(v); err == nil && !active {
				d.inactive = append(d.inactive, len(d.rows))
			}
		}
		d.rows = append(d.rows, item)
	}
	return d
}

// flushVariations replaces the variations of every imported product.
func flushVariations(db *gorm.DB, d *variationData, opts ImportOptions) error {
	if len(d.products) == 0 {
		return nil
	}
	err := db.Where("product_id IN ?", d.products).Delete(&catalogEntity.ProductVariation{}).Error
	if err != nil {
		return fmt.Errorf("delete variations: %w", err)
	}
	if len(d.rows) == 0 {
		return nil
	}
	if err := db.CreateInBatches(d.rows, opts.BatchSize).Error; err != nil {
		return fmt.Errorf("insert variations: %w", err)
	}
	if len(d.inactive) == 0 {
		return nil
	}
	ids := make([]uint, len(d.inactive))
	for i, idx := range d.inactive {
		ids[i] = d.rows[idx].ID
	}
	err = db.Model(&catalogEntity.ProductVariation{}).Where("id IN ?", ids).Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("deactivate variations: %w", err)
	}
	return nil
}
