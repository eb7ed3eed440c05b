package types

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a recipe category with a HEX color and a unique slug.
// (name, slug) is unique; slug is derived from name when not supplied.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null;index:idx_tag_name_slug,unique,priority:1" json:"name"`
	Color     string    `gorm:"size:7;not null;column:color" json:"color"`
	Slug      string    `gorm:"size:200;uniqueIndex;not null;index:idx_tag_name_slug,unique,priority:2" json:"slug"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Tag) TableName() string {
	return "tag"
}
