package product

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogEntity "giftshop.GO/model/entity/catalog"
)

// ImportOptions configures a product import run.
type ImportOptions struct {
	BatchSize int
	// SkipVariations ignores variation columns even when present.
	SkipVariations bool
}

// ImportResult holds counters and timing from an import run.
type ImportResult struct {
	TotalRows   int
	Products    int
	Created     int
	Updated     int
	Skipped     int
	Variations  int
	Warnings    []string
	ProcessTime time.Duration
	DBTime      time.Duration
	TotalTime   time.Duration
}

var productColumns = map[string]bool{
	"id": true, "name": true, "description": true, "price": true,
	"discount_percentage": true, "tags": true, "category_id": true,
	"category_ids": true, "vendor_id": true, "is_active": true,
}

// knownColumns returns all column names handled by any module.
func knownColumns() map[string]bool {
	known := make(map[string]bool)
	for _, set := range []map[string]bool{productColumns, galleryColumns, variationColumns} {
		for col := range set {
			known[col] = true
		}
	}
	return known
}

// ImportProducts reads CSV data from r and upserts products and their
// variations. Rows repeating an id add variations to the product defined by
// the first row with that id.
func ImportProducts(db *gorm.DB, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	startTotal := time.Now()

	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		headers[i] = h
		colIndex[h] = i
	}
	if _, ok := colIndex["id"]; !ok {
		return nil, fmt.Errorf("CSV must contain an 'id' column")
	}

	result := &ImportResult{}
	known := knownColumns()
	for _, h := range headers {
		if !known[h] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("column %q: unknown, skipping", h))
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV rows: %w", err)
	}
	result.TotalRows = len(rows)

	startProcess := time.Now()
	products := collectProducts(rows, colIndex, result)
	gallery := collectGallery(rows, colIndex)
	gallery.apply(products.rows)

	var variations *variationData
	if !opts.SkipVariations {
		variations = collectVariations(rows, colIndex, products.ids)
		result.Warnings = append(result.Warnings, variations.warnings...)
	}
	result.ProcessTime = time.Since(startProcess)

	ids := make([]string, len(products.rows))
	for i, p := range products.rows {
		ids[i] = p.ID
	}
	existing, err := lookupIDs(db, ids, opts.BatchSize)
	if err != nil {
		return nil, err
	}

	startDB := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := flushProducts(tx, products, opts); err != nil {
			return err
		}
		if variations != nil {
			return flushVariations(tx, variations, opts)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.DBTime = time.Since(startDB)

	result.Products = len(products.rows)
	result.Updated = len(existing)
	result.Created = result.Products - result.Updated
	if variations != nil {
		result.Variations = len(variations.rows)
	}
	result.TotalTime = time.Since(startTotal)
	return result, nil
}

// productData holds collected product rows in first-seen order.
type productData struct {
	rows     []catalogEntity.Product
	ids      map[string]int
	inactive []string
}

// collectProducts builds one product per distinct id. Rows with an empty id
// are skipped; later rows with a known id only feed the other modules.
func collectProducts(rows [][]string, colIndex map[string]int, result *ImportResult) *productData {
	d := &productData{ids: make(map[string]int)}
	for _, row := range rows {
		id := cell(row, colIndex, "id")
		if id == "" {
			result.Skipped++
			continue
		}
		if _, seen := d.ids[id]; seen {
			continue
		}
		name := cell(row, colIndex, "name")
		if name == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("id=%s: empty name, product hidden from feeds", id))
		}
		p := catalogEntity.Product{
			ID:          id,
			Name:        name,
			Description: cell(row, colIndex, "description"),
			CategoryID:  cell(row, colIndex, "category_id"),
			VendorID:    cell(row, colIndex, "vendor_id"),
			IsActive:    true,
			Tags:        jsonList(cell(row, colIndex, "tags")),
			CategoryIDs: jsonList(cell(row, colIndex, "category_ids")),
		}
		if v := cell(row, colIndex, "price"); v != "" {
			fv, err := strconv.ParseFloat(v, 64)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("id=%s: invalid price %q", id, v))
			} else {
				p.Price = fv
			}
		}
		if v := cell(row, colIndex, "discount_percentage"); v != "" {
			pct, err := strconv.Atoi(v)
			if err != nil || pct < 0 || pct > 100 {
				result.Warnings = append(result.Warnings, fmt.Sprintf("id=%s: invalid discount_percentage %q", id, v))
			} else {
				p.DiscountPercentage = pct
			}
		}
		if v := cell(row, colIndex, "is_active"); v != "" {
			if active, err := strconv.ParseBool(v); err == nil && !active {
				p.IsActive = false
				d.inactive = append(d.inactive, id)
			}
		}
		d.ids[id] = len(d.rows)
		d.rows = append(d.rows, p)
	}
	return d
}

// flushProducts upserts products; is_active is written separately because
// gorm skips zero values of columns that have a default.
func flushProducts(db *gorm.DB, d *productData, opts ImportOptions) error {
	if len(d.rows) == 0 {
		return nil
	}
	upsert := clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "price", "discount_percentage", "images", "image_url",
			"tags", "category_id", "category_ids", "vendor_id", "is_active", "updated_at",
		}),
	}
	if err := db.Omit("Variations").Clauses(upsert).CreateInBatches(d.rows, opts.BatchSize).Error; err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}
	if len(d.inactive) > 0 {
		err := db.Model(&catalogEntity.Product{}).Where("id IN ?", d.inactive).Update("is_active", false).Error
		if err != nil {
			return fmt.Errorf("deactivate products: %w", err)
		}
	}
	return nil
}

// lookupIDs batch-queries which ids already exist.
func lookupIDs(db *gorm.DB, ids []string, batchSize int) (map[string]bool, error) {
	m := make(map[string]bool)
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		var chunk []string
		err := db.Model(&catalogEntity.Product{}).Where("id IN ?", ids[i:end]).Pluck("id", &chunk).Error
		if err != nil {
			return nil, fmt.Errorf("lookup product ids: %w", err)
		}
		for _, id := range chunk {
			m[id] = true
		}
	}
	return m, nil
}

func cell(row []string, colIndex map[string]int, col string) string {
	ci, ok := colIndex[col]
	if !ok || ci >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[ci])
}

// splitList splits a pipe-separated cell, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// jsonList stores a pipe-separated cell as a JSON array column.
func jsonList(v string) datatypes.JSON {
	items := splitList(v)
	if len(items) == 0 {
		return nil
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}
