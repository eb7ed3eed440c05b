package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

// RecipeFilter narrows List. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID    uuid.UUID
	TagSlugs    []string
	FavoritedBy uuid.UUID
	InCartOf    uuid.UUID
	Page        int
	Limit       int
}

type RecipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, recipes []*types.Recipe) ([]*types.Recipe, error)
	UpdateScalars(ctx context.Context, tx *gorm.DB, recipe *types.Recipe) error
	GetByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.Recipe, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.Recipe, error)
	List(ctx context.Context, tx *gorm.DB, filter RecipeFilter) ([]*types.Recipe, int64, error)
	ListByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID, limit int) ([]*types.Recipe, error)
	CountByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) (int64, error)
	NameExistsForAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID, name string, excludeRecipeID uuid.UUID) (bool, error)
	ReplaceTags(ctx context.Context, tx *gorm.DB, recipe *types.Recipe, tags []*types.Tag) error
	DeleteByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	repoLog := baseLog.With("repo", "RecipeRepo")
	return &recipeRepo{db: db, log: repoLog}
}

func (rr *recipeRepo) Create(ctx context.Context, tx *gorm.DB, recipes []*types.Recipe) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(recipes) == 0 {
		return []*types.Recipe{}, nil
	}
	// Associations are written by the authoring transaction, not here.
	if err := transaction.WithContext(ctx).Omit("Tags", "Ingredients").Create(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// UpdateScalars rewrites the recipe's own columns only. PubDate is
// deliberately excluded so it survives every update.
func (rr *recipeRepo) UpdateScalars(ctx context.Context, tx *gorm.DB, recipe *types.Recipe) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Where("id = ?", recipe.ID).
		Updates(map[string]interface{}{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		}).Error
}

func (rr *recipeRepo) GetByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var recipe types.Recipe
	err := transaction.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (rr *recipeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Recipe
	if len(recipeIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", recipeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// List applies the catalog filters and paginates, newest first.
func (rr *recipeRepo) List(ctx context.Context, tx *gorm.DB, filter RecipeFilter) ([]*types.Recipe, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Recipe{})
	if filter.AuthorID != uuid.Nil {
		query = query.Where("recipe.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.Where(
			`EXISTS (SELECT 1 FROM recipe_tag rt JOIN tag t ON t.id = rt.tag_id WHERE rt.recipe_id = recipe.id AND t.slug IN ?)`,
			filter.TagSlugs,
		)
	}
	if filter.FavoritedBy != uuid.Nil {
		query = query.Where(
			`EXISTS (SELECT 1 FROM user_recipe ur WHERE ur.recipe_id = recipe.id AND ur.user_id = ? AND ur.kind = ?)`,
			filter.FavoritedBy, types.KindFavorite,
		)
	}
	if filter.InCartOf != uuid.Nil {
		query = query.Where(
			`EXISTS (SELECT 1 FROM user_recipe ur WHERE ur.recipe_id = recipe.id AND ur.user_id = ? AND ur.kind = ?)`,
			filter.InCartOf, types.KindCart,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = types.PaginationPageSize
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var results []*types.Recipe
	err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Order("recipe.pub_date DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (rr *recipeRepo) ListByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID, limit int) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	query := transaction.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var results []*types.Recipe
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeRepo) CountByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (rr *recipeRepo) NameExistsForAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID, name string, excludeRecipeID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	query := transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Where("author_id = ? AND name = ?", authorID, name)
	if excludeRecipeID != uuid.Nil {
		query = query.Where("id <> ?", excludeRecipeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReplaceTags set-replaces the recipe's tag assignments to exactly
// the given tags.
func (rr *recipeRepo) ReplaceTags(ctx context.Context, tx *gorm.DB, recipe *types.Recipe, tags []*types.Tag) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(recipe).
		Association("Tags").
		Replace(tags)
}

func (rr *recipeRepo) DeleteByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", recipeID).
		Delete(&types.Recipe{}).Error
}

func (rr *recipeRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
