package types

import (
	"time"

	"github.com/google/uuid"
)

// MembershipKind names the user collection a recipe belongs to.
type MembershipKind string

const (
	KindFavorite MembershipKind = "favorite"
	KindCart     MembershipKind = "shopping_cart"
)

// UserRecipe records that a user put a recipe into one of their
// collections. (user, recipe, kind) is unique; CreatedAt preserves
// the cart insertion order for the shopping-list export.
type UserRecipe struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_recipe_kind,unique,priority:1" json:"user_id"`
	RecipeID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_recipe_kind,unique,priority:2" json:"recipe_id"`
	Kind      MembershipKind `gorm:"size:32;not null;column:kind;index:idx_user_recipe_kind,unique,priority:3" json:"kind"`
	Recipe    *Recipe        `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipeID;references:ID" json:"recipe,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (UserRecipe) TableName() string {
	return "user_recipe"
}
