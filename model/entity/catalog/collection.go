package catalog

// Collection represents the collections table (curated bundles)
type Collection struct {
	ID          string `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	Title       string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Color       string `gorm:"column:color;type:varchar(32)" json:"color,omitempty"`
	Category    string `gorm:"column:category;type:varchar(64)" json:"category,omitempty"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
	Position    int    `gorm:"column:position;not null;default:0" json:"position"`
	IsActive    bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`

	Items []CollectionItem `gorm:"foreignKey:CollectionID;references:ID" json:"items,omitempty"`
}

func (Collection) TableName() string {
	return "collections"
}

// CollectionItem links a product into a collection at a position
type CollectionItem struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	CollectionID string `gorm:"column:collection_id;type:varchar(64);not null;index" json:"collection_id"`
	ProductID    string `gorm:"column:product_id;type:varchar(64);not null" json:"product_id"`
	Position     int    `gorm:"column:position;not null;default:0" json:"position"`
}

func (CollectionItem) TableName() string {
	return "collection_items"
}
