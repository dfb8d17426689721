package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	catalogEntity "giftshop.GO/model/entity/catalog"
)

// ErrNotFound is returned by the single-row lookups.
var ErrNotFound = errors.New("catalog repository: not found")

type CatalogRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewCatalogRepository(db *gorm.DB) (*CatalogRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &CatalogRepository{db: db, sqlDB: sqlDB}, nil
}

// AutoMigrate creates or updates the catalog tables.
func (r *CatalogRepository) AutoMigrate() error {
	return r.db.AutoMigrate(catalogEntity.All()...)
}

// ListProducts returns active products in insertion order.
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]catalogEntity.Product, error) {
	var products []catalogEntity.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC, id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListVariations returns every active variation.
func (r *CatalogRepository) ListVariations(ctx context.Context) ([]catalogEntity.ProductVariation, error) {
	var vars []catalogEntity.ProductVariation
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("product_id ASC, id ASC").
		Find(&vars).Error
	if err != nil {
		return nil, fmt.Errorf("list variations: %w", err)
	}
	return vars, nil
}

// ListCollections returns active collections with their items by position.
func (r *CatalogRepository) ListCollections(ctx context.Context) ([]catalogEntity.Collection, error) {
	var collections []catalogEntity.Collection
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Where("is_active = ?", true).
		Order("position ASC, id ASC").
		Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return collections, nil
}

// ListRecipients returns every saved recipient.
func (r *CatalogRepository) ListRecipients(ctx context.Context) ([]catalogEntity.Recipient, error) {
	var recipients []catalogEntity.Recipient
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&recipients).Error; err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	return recipients, nil
}

func (r *CatalogRepository) GetRecipient(ctx context.Context, id string) (*catalogEntity.Recipient, error) {
	var rec catalogEntity.Recipient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipient %s: %w", id, err)
	}
	return &rec, nil
}

func (r *CatalogRepository) GetVendor(ctx context.Context, id string) (*catalogEntity.Vendor, error) {
	var v catalogEntity.Vendor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vendor %s: %w", id, err)
	}
	return &v, nil
}

// BatchGetVendorNames fetches names for many vendors in one query. Unknown
// ids are absent from the result.
func (r *CatalogRepository) BatchGetVendorNames(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	rows, err := r.db.WithContext(ctx).
		Table(catalogEntity.Vendor{}.TableName()).
		Select("id, name").
		Where("id IN ?", ids).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("batch vendor names: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string, len(ids))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			continue
		}
		result[id] = name
	}
	return result, rows.Err()
}

// CountProducts counts active products with raw SQL.
func (r *CatalogRepository) CountProducts(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM products WHERE is_active = ?`
	var n int64
	err := r.sqlDB.QueryRowContext(ctx, query, true).Scan(&n)
	return n, err
}
