package types

// Bounds and lengths shared by validation and the models.
const (
	MaxLengthUserEmail = 254
	MaxLengthUserField = 150

	MaxLengthRecipe = 200
	MinCookingTime  = 1
	MaxCookingTime  = 1000

	MaxLengthIngredient = 200

	MaxLengthTag      = 200
	MaxLengthTagColor = 7

	MinAmount = 1
	MaxAmount = 10000

	PaginationPageSize  = 6
	DefaultRecipesLimit = 3
)
