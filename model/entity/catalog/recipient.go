package catalog

import "time"

// Recipient represents the recipients table
type Recipient struct {
	ID                   string    `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	UserID               string    `gorm:"column:user_id;type:varchar(64);index" json:"user_id,omitempty"`
	FirstName            string    `gorm:"column:first_name;type:varchar(255)" json:"first_name"`
	Hobbies              string    `gorm:"column:hobbies;type:text" json:"hobbies,omitempty"`
	Sports               string    `gorm:"column:sports;type:text" json:"sports,omitempty"`
	FavoriteColors       string    `gorm:"column:favorite_colors;type:text" json:"favorite_colors,omitempty"`
	StylePreferences     string    `gorm:"column:style_preferences;type:text" json:"style_preferences,omitempty"`
	GiftTypePreference   string    `gorm:"column:gift_type_preference;type:text" json:"gift_type_preference,omitempty"`
	PersonalityLifestyle string    `gorm:"column:personality_lifestyle;type:text" json:"personality_lifestyle,omitempty"`
	RecentLifeEvents     string    `gorm:"column:recent_life_events;type:text" json:"recent_life_events,omitempty"`
	CreatedAt            time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Recipient) TableName() string {
	return "recipients"
}

// Vendor represents the vendors table
type Vendor struct {
	ID    string `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	Name  string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email string `gorm:"column:email;type:varchar(255)" json:"email,omitempty"`
}

func (Vendor) TableName() string {
	return "vendors"
}

// All lists every catalog entity for AutoMigrate.
func All() []interface{} {
	return []interface{}{&Product{}, &ProductVariation{}, &Collection{}, &CollectionItem{}, &Recipient{}, &Vendor{}}
}
