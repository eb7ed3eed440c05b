package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

// Read-side payloads assembled by the services. The favorited and
// in-cart flags are always derived from membership rows, never stored.

type UserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type IngredientLineView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeView struct {
	ID               uuid.UUID            `json:"id"`
	Author           UserView             `json:"author"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
	PubDate          time.Time            `json:"pub_date"`
	Tags             []*types.Tag         `json:"tags"`
	Ingredients      []IngredientLineView `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
}

// RecipeShortView is the trimmed payload used by membership responses
// and subscription listings.
type RecipeShortView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type SubscriptionView struct {
	ID           uuid.UUID         `json:"id"`
	Email        string            `json:"email"`
	Username     string            `json:"username"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	IsSubscribed bool              `json:"is_subscribed"`
	Recipes      []RecipeShortView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

type RecipePage struct {
	Count   int64         `json:"count"`
	Results []*RecipeView `json:"results"`
}

func shortView(recipe *types.Recipe) RecipeShortView {
	return RecipeShortView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func userView(user *types.User, isSubscribed bool) UserView {
	return UserView{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}
