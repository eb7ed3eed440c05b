package types

import (
	"time"

	"github.com/google/uuid"
)

// Recipe owns its tag assignments and ingredient lines as one
// consistency unit; both collections are fully replaced on update.
type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index:idx_recipe_author_name,unique,priority:1" json:"author_id"`
	Author      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"-"`
	Name        string    `gorm:"size:200;not null;index:idx_recipe_author_name,unique,priority:2" json:"name"`
	Image       string    `gorm:"not null;column:image" json:"image"`
	Text        string    `gorm:"not null;column:text" json:"text"`
	CookingTime int       `gorm:"not null;column:cooking_time" json:"cooking_time"`
	// PubDate is assigned once at creation and never rewritten.
	PubDate   time.Time `gorm:"not null;column:pub_date;index" json:"pub_date"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Tags        []*Tag              `gorm:"many2many:recipe_tag;" json:"tags,omitempty"`
	Ingredients []*RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients,omitempty"`
}

func (Recipe) TableName() string {
	return "recipe"
}

// RecipeIngredient is one ingredient line of a recipe. A recipe may
// list a given ingredient at most once.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_recipe_ingredient,unique,priority:1" json:"recipe_id"`
	IngredientID uuid.UUID   `gorm:"type:uuid;not null;index:idx_recipe_ingredient,unique,priority:2" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;references:ID" json:"ingredient,omitempty"`
	Amount       int         `gorm:"not null;column:amount" json:"amount"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredient"
}
