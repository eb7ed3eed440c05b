package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/apierr"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/normalization"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/repos"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

// IngredientLineInput is one requested (ingredient, amount) pair.
type IngredientLineInput struct {
	IngredientID uuid.UUID `json:"id"`
	Amount       int       `json:"amount"`
}

// RecipeInput is the write-side payload for create and full update.
// Ingredient lines and tags always replace the previous sets; an
// omitted ingredient means removal.
type RecipeInput struct {
	Name        string                `json:"name"`
	Image       string                `json:"image"`
	Text        string                `json:"text"`
	CookingTime int                   `json:"cooking_time"`
	TagIDs      []uuid.UUID           `json:"tags"`
	Ingredients []IngredientLineInput `json:"ingredients"`
}

type RecipeService interface {
	Create(ctx context.Context, authorID uuid.UUID, input RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, actorID, recipeID uuid.UUID, input RecipeInput) (*RecipeView, error)
	Delete(ctx context.Context, actorID, recipeID uuid.UUID) error
	GetByID(ctx context.Context, viewerID, recipeID uuid.UUID) (*RecipeView, error)
	List(ctx context.Context, viewerID uuid.UUID, filter repos.RecipeFilter) (*RecipePage, error)
}

type recipeService struct {
	db             *gorm.DB
	log            *logger.Logger
	recipeRepo     repos.RecipeRepo
	lineRepo       repos.RecipeIngredientRepo
	tagRepo        repos.TagRepo
	ingredientRepo repos.IngredientRepo
	userRepo       repos.UserRepo
	userRecipeRepo repos.UserRecipeRepo
	followRepo     repos.FollowRepo
}

func NewRecipeService(
	db *gorm.DB,
	log *logger.Logger,
	recipeRepo repos.RecipeRepo,
	lineRepo repos.RecipeIngredientRepo,
	tagRepo repos.TagRepo,
	ingredientRepo repos.IngredientRepo,
	userRepo repos.UserRepo,
	userRecipeRepo repos.UserRecipeRepo,
	followRepo repos.FollowRepo,
) RecipeService {
	serviceLog := log.With("service", "RecipeService")
	return &recipeService{
		db:             db,
		log:            serviceLog,
		recipeRepo:     recipeRepo,
		lineRepo:       lineRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		userRepo:       userRepo,
		userRecipeRepo: userRecipeRepo,
		followRepo:     followRepo,
	}
}

// validatedInput carries the catalog rows resolved during validation
// so the write phase does not look them up twice.
type validatedInput struct {
	tags        []*types.Tag
	ingredients map[uuid.UUID]*types.Ingredient
}

// validate checks every input constraint before any write. On update
// the (author, name) uniqueness check excludes the recipe's own row.
func (rs *recipeService) validate(ctx context.Context, authorID uuid.UUID, input *RecipeInput, excludeRecipeID uuid.UUID, requireImage bool) (*validatedInput, error) {
	input.Name = normalization.TrimInputString(input.Name)
	if input.Name == "" {
		return nil, apierr.Validation("name", "recipe name is required")
	}
	if len(input.Name) > types.MaxLengthRecipe {
		return nil, apierr.Validation("name", "recipe name is too long")
	}
	if requireImage && input.Image == "" {
		return nil, apierr.Validation("image", "image is required")
	}
	if input.CookingTime < types.MinCookingTime || input.CookingTime > types.MaxCookingTime {
		return nil, apierr.Validation("cooking_time", fmt.Sprintf("cooking time must be between %d and %d", types.MinCookingTime, types.MaxCookingTime))
	}

	if len(input.TagIDs) == 0 {
		return nil, apierr.Validation("tags", "at least one tag is required")
	}
	seenTags := make(map[uuid.UUID]struct{}, len(input.TagIDs))
	for _, tagID := range input.TagIDs {
		if _, dup := seenTags[tagID]; dup {
			return nil, apierr.Validation("tags", "tags must not repeat")
		}
		seenTags[tagID] = struct{}{}
	}
	tags, err := rs.tagRepo.GetByIDs(ctx, nil, input.TagIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	if len(tags) != len(input.TagIDs) {
		return nil, apierr.Validation("tags", "tag does not exist")
	}

	if len(input.Ingredients) == 0 {
		return nil, apierr.Validation("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(input.Ingredients))
	ingredientIDs := make([]uuid.UUID, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		if line.IngredientID == uuid.Nil {
			return nil, apierr.Validation("ingredients", "ingredient id is required")
		}
		if _, dup := seenIngredients[line.IngredientID]; dup {
			return nil, apierr.Validation("ingredients", "ingredients must not repeat")
		}
		seenIngredients[line.IngredientID] = struct{}{}
		ingredientIDs = append(ingredientIDs, line.IngredientID)
		if line.Amount < types.MinAmount || line.Amount > types.MaxAmount {
			return nil, apierr.Validation("ingredients", fmt.Sprintf("amount must be between %d and %d", types.MinAmount, types.MaxAmount))
		}
	}
	ingredients, err := rs.ingredientRepo.GetByIDs(ctx, nil, ingredientIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve ingredients: %w", err)
	}
	if len(ingredients) != len(ingredientIDs) {
		return nil, apierr.Validation("ingredients", "ingredient does not exist")
	}
	byID := make(map[uuid.UUID]*types.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	nameTaken, err := rs.recipeRepo.NameExistsForAuthor(ctx, nil, authorID, input.Name, excludeRecipeID)
	if err != nil {
		return nil, fmt.Errorf("check recipe name: %w", err)
	}
	if nameTaken {
		return nil, apierr.Conflict("you already have a recipe with this name")
	}

	return &validatedInput{tags: tags, ingredients: byID}, nil
}

// Create runs the authoring transaction: recipe row, tag set and
// ingredient lines are written as one atomic unit.
func (rs *recipeService) Create(ctx context.Context, authorID uuid.UUID, input RecipeInput) (*RecipeView, error) {
	resolved, err := rs.validate(ctx, authorID, &input, uuid.Nil, true)
	if err != nil {
		return nil, err
	}

	recipe := &types.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        input.Name,
		Image:       input.Image,
		Text:        input.Text,
		CookingTime: input.CookingTime,
		PubDate:     time.Now(),
	}

	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := rs.recipeRepo.Create(ctx, tx, []*types.Recipe{recipe}); err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		if err := rs.recipeRepo.ReplaceTags(ctx, tx, recipe, resolved.tags); err != nil {
			return fmt.Errorf("assign tags: %w", err)
		}
		if err := rs.writeLines(ctx, tx, recipe.ID, input.Ingredients); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rs.GetByID(ctx, authorID, recipe.ID)
}

// Update fully replaces the recipe's tag set and ingredient lines.
// PubDate is never rewritten.
func (rs *recipeService) Update(ctx context.Context, actorID, recipeID uuid.UUID, input RecipeInput) (*RecipeView, error) {
	existing, err := rs.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if existing.AuthorID != actorID {
		return nil, apierr.Forbidden("only the author can edit a recipe")
	}
	if input.Image == "" {
		input.Image = existing.Image
	}

	resolved, err := rs.validate(ctx, actorID, &input, recipeID, false)
	if err != nil {
		return nil, err
	}

	updated := &types.Recipe{
		ID:          existing.ID,
		AuthorID:    existing.AuthorID,
		Name:        input.Name,
		Image:       input.Image,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}

	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rs.recipeRepo.UpdateScalars(ctx, tx, updated); err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if err := rs.recipeRepo.ReplaceTags(ctx, tx, updated, resolved.tags); err != nil {
			return fmt.Errorf("replace tags: %w", err)
		}
		// Delete-then-recreate keeps the no-duplicate-line invariant
		// without diffing old against new.
		if err := rs.lineRepo.DeleteByRecipeID(ctx, tx, recipeID); err != nil {
			return fmt.Errorf("delete ingredient lines: %w", err)
		}
		if err := rs.writeLines(ctx, tx, recipeID, input.Ingredients); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rs.GetByID(ctx, actorID, recipeID)
}

func (rs *recipeService) writeLines(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, inputs []IngredientLineInput) error {
	lines := make([]*types.RecipeIngredient, 0, len(inputs))
	for _, line := range inputs {
		lines = append(lines, &types.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}
	if _, err := rs.lineRepo.BulkCreate(ctx, tx, lines); err != nil {
		return fmt.Errorf("insert ingredient lines: %w", err)
	}
	return nil
}

func (rs *recipeService) Delete(ctx context.Context, actorID, recipeID uuid.UUID) error {
	existing, err := rs.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("recipe not found")
		}
		return fmt.Errorf("load recipe: %w", err)
	}
	if existing.AuthorID != actorID {
		return apierr.Forbidden("only the author can delete a recipe")
	}
	return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rs.lineRepo.DeleteByRecipeID(ctx, tx, recipeID); err != nil {
			return fmt.Errorf("delete ingredient lines: %w", err)
		}
		if err := rs.recipeRepo.ReplaceTags(ctx, tx, existing, nil); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		if err := rs.recipeRepo.DeleteByID(ctx, tx, recipeID); err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		return nil
	})
}

func (rs *recipeService) GetByID(ctx context.Context, viewerID, recipeID uuid.UUID) (*RecipeView, error) {
	recipe, err := rs.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	flags, err := rs.viewerFlags(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return rs.assembleView(recipe, flags), nil
}

func (rs *recipeService) List(ctx context.Context, viewerID uuid.UUID, filter repos.RecipeFilter) (*RecipePage, error) {
	recipes, total, err := rs.recipeRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	flags, err := rs.viewerFlags(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	views := make([]*RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		views = append(views, rs.assembleView(recipe, flags))
	}
	return &RecipePage{Count: total, Results: views}, nil
}

// viewerFlags captures the viewer's memberships and follows once per
// request so list assembly does not issue per-recipe lookups.
type viewerFlags struct {
	favorites map[uuid.UUID]struct{}
	cart      map[uuid.UUID]struct{}
	following map[uuid.UUID]struct{}
}

func (rs *recipeService) viewerFlags(ctx context.Context, viewerID uuid.UUID) (*viewerFlags, error) {
	flags := &viewerFlags{
		favorites: map[uuid.UUID]struct{}{},
		cart:      map[uuid.UUID]struct{}{},
		following: map[uuid.UUID]struct{}{},
	}
	if viewerID == uuid.Nil {
		return flags, nil
	}
	favorites, err := rs.userRecipeRepo.ListByUser(ctx, nil, viewerID, types.KindFavorite)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	for _, m := range favorites {
		flags.favorites[m.RecipeID] = struct{}{}
	}
	cart, err := rs.userRecipeRepo.ListByUser(ctx, nil, viewerID, types.KindCart)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	for _, m := range cart {
		flags.cart[m.RecipeID] = struct{}{}
	}
	follows, err := rs.followRepo.ListByUser(ctx, nil, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load follows: %w", err)
	}
	for _, f := range follows {
		flags.following[f.AuthorID] = struct{}{}
	}
	return flags, nil
}

func (rs *recipeService) assembleView(recipe *types.Recipe, flags *viewerFlags) *RecipeView {
	view := &RecipeView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		PubDate:     recipe.PubDate,
		Tags:        recipe.Tags,
		Ingredients: make([]IngredientLineView, 0, len(recipe.Ingredients)),
	}
	if recipe.Author != nil {
		_, subscribed := flags.following[recipe.AuthorID]
		view.Author = userView(recipe.Author, subscribed)
	}
	for _, line := range recipe.Ingredients {
		lv := IngredientLineView{ID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			lv.Name = line.Ingredient.Name
			lv.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		view.Ingredients = append(view.Ingredients, lv)
	}
	_, view.IsFavorited = flags.favorites[recipe.ID]
	_, view.IsInShoppingCart = flags.cart[recipe.ID]
	return view
}
