package model

import (
	"time"
)

// Tag groups menu images across categories, e.g. "限定メニュー".
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tag) TableName() string {
	return "tags"
}

// ImageTag is the join row between images and tags.
type ImageTag struct {
	ImageID   uint      `gorm:"primaryKey;index" json:"image_id"`
	TagID     uint      `gorm:"primaryKey;index" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ImageTag) TableName() string {
	return "image_tag"
}
