package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

type RecipeIngredientRepo interface {
	BulkCreate(ctx context.Context, tx *gorm.DB, lines []*types.RecipeIngredient) ([]*types.RecipeIngredient, error)
	ListByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.RecipeIngredient, error)
	DeleteByRecipeID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type recipeIngredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	repoLog := baseLog.With("repo", "RecipeIngredientRepo")
	return &recipeIngredientRepo{db: db, log: repoLog}
}

func (rir *recipeIngredientRepo) BulkCreate(ctx context.Context, tx *gorm.DB, lines []*types.RecipeIngredient) ([]*types.RecipeIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = rir.db
	}
	if len(lines) == 0 {
		return []*types.RecipeIngredient{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (rir *recipeIngredientRepo) ListByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.RecipeIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = rir.db
	}
	var results []*types.RecipeIngredient
	if len(recipeIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id IN ?", recipeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rir *recipeIngredientRepo) DeleteByRecipeID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rir.db
	}
	return transaction.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&types.RecipeIngredient{}).Error
}

func (rir *recipeIngredientRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rir.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.RecipeIngredient{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
