package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

type IngredientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ingredients []*types.Ingredient) ([]*types.Ingredient, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.Ingredient, error)
	List(ctx context.Context, tx *gorm.DB, namePrefix string) ([]*types.Ingredient, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	repoLog := baseLog.With("repo", "IngredientRepo")
	return &ingredientRepo{db: db, log: repoLog}
}

func (ir *ingredientRepo) Create(ctx context.Context, tx *gorm.DB, ingredients []*types.Ingredient) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(ingredients) == 0 {
		return []*types.Ingredient{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (ir *ingredientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Ingredient
	if len(ingredientIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ingredientIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// List returns ingredients ordered by name, optionally narrowed to a
// case-insensitive name prefix.
func (ir *ingredientRepo) List(ctx context.Context, tx *gorm.DB, namePrefix string) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	query := transaction.WithContext(ctx).Order("name ASC")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}
	var results []*types.Ingredient
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
