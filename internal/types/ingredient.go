package types

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient identity is the (name, measurement unit) pair. Rows are
// never mutated once referenced by a recipe line; a changed unit is a
// new ingredient.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:200;not null;index:idx_ingredient_name_unit,unique,priority:1" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;column:measurement_unit;index:idx_ingredient_name_unit,unique,priority:2" json:"measurement_unit"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Ingredient) TableName() string {
	return "ingredient"
}
