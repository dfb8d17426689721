package catalog

import (
	"time"

	"gorm.io/datatypes"
)

// Product represents the products table
type Product struct {
	ID                 string         `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	Name               string         `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description        string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Price              float64        `gorm:"column:price;type:decimal(12,2);not null;default:0" json:"price"`
	DiscountPercentage int            `gorm:"column:discount_percentage;not null;default:0" json:"discount_percentage"`
	Images             string         `gorm:"column:images;type:text" json:"images,omitempty"`
	ImageURL           string         `gorm:"column:image_url;type:varchar(1024)" json:"image_url,omitempty"`
	Tags               datatypes.JSON `gorm:"column:tags" json:"tags,omitempty"`
	CategoryID         string         `gorm:"column:category_id;type:varchar(64);index" json:"category_id,omitempty"`
	CategoryIDs        datatypes.JSON `gorm:"column:category_ids" json:"category_ids,omitempty"`
	VendorID           string         `gorm:"column:vendor_id;type:varchar(64);index" json:"vendor_id,omitempty"`
	IsActive           bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt          time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at" json:"updated_at"`

	Variations []ProductVariation `gorm:"foreignKey:ProductID;references:ID" json:"variations,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ProductVariation represents the product_variations table. Attributes is a
// free-form JSON document, either flat or in the combination format.
type ProductVariation struct {
	ID            uint     `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	ProductID     string   `gorm:"column:product_id;type:varchar(64);not null;index" json:"product_id"`
	Price         *float64 `gorm:"column:price;type:decimal(12,2)" json:"price,omitempty"`
	PriceModifier *float64 `gorm:"column:price_modifier;type:decimal(12,2)" json:"price_modifier,omitempty"`
	Attributes    string   `gorm:"column:attributes;type:text" json:"attributes,omitempty"`
	IsActive      bool     `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

func (ProductVariation) TableName() string {
	return "product_variations"
}
