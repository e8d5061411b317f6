package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Image is a menu entry: a photo plus the metadata shown next to it on the
// menu board. The table keeps the historical "images" name.
type Image struct {
	ID           uint                `gorm:"primarykey" json:"id"`
	Title        string              `gorm:"type:varchar(255);not null" json:"title"`
	FilePath     string              `gorm:"type:varchar(255);not null" json:"file_path"`
	AltText      *string             `gorm:"type:varchar(255)" json:"alt_text"`
	Caption      *string             `gorm:"type:text" json:"caption"`
	CategoryID   *uint               `gorm:"index" json:"category_id"`
	PriceS       decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price_s"`
	PriceL       decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price_l"`
	PriceOther   decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price_other"`
	IsPublic     bool                `gorm:"not null" json:"is_public"`
	DisplayOrder *int                `gorm:"index" json:"display_order"`
	StartAt      *time.Time          `json:"start_at"`
	EndAt        *time.Time          `json:"end_at"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	// Relationships
	Category *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Tags     []Tag     `gorm:"many2many:image_tag;" json:"tags,omitempty"`
}

func (Image) TableName() string {
	return "images"
}

// CategoryName returns the preloaded category name, or "" when the image has
// no category or the relation was not loaded.
func (i *Image) CategoryName() string {
	if i.Category == nil {
		return ""
	}
	return i.Category.Name
}

// TagIDs returns the ids of the preloaded tags in load order.
func (i *Image) TagIDs() []uint {
	ids := make([]uint, 0, len(i.Tags))
	for _, tag := range i.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

// Alt is the alt text used when rendering, defaulting to the title.
func (i *Image) Alt() string {
	if i.AltText != nil && *i.AltText != "" {
		return *i.AltText
	}
	return i.Title
}

// DisplayOrderUpdate is one entry of a reorder batch.
type DisplayOrderUpdate struct {
	ID           uint `json:"id"`
	DisplayOrder int  `json:"display_order"`
}
