package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

type UserRecipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, memberships []*types.UserRecipe) ([]*types.UserRecipe, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID, kind types.MembershipKind) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID, kind types.MembershipKind) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.MembershipKind) ([]*types.UserRecipe, error)
}

type userRecipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRecipeRepo(db *gorm.DB, baseLog *logger.Logger) UserRecipeRepo {
	repoLog := baseLog.With("repo", "UserRecipeRepo")
	return &userRecipeRepo{db: db, log: repoLog}
}

func (mr *userRecipeRepo) Create(ctx context.Context, tx *gorm.DB, memberships []*types.UserRecipe) ([]*types.UserRecipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(memberships) == 0 {
		return []*types.UserRecipe{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (mr *userRecipeRepo) Exists(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID, kind types.MembershipKind) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserRecipe{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (mr *userRecipeRepo) Delete(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID, kind types.MembershipKind) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&types.UserRecipe{}).Error
}

// ListByUser returns memberships in insertion order, with their
// recipes preloaded. The shopping-list export depends on this order.
func (mr *userRecipeRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.MembershipKind) ([]*types.UserRecipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.UserRecipe
	if err := transaction.WithContext(ctx).
		Preload("Recipe").
		Where("user_id = ? AND kind = ?", userID, kind).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
