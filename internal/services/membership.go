package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/apierr"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/repos"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

// MembershipService toggles favorite and cart memberships. Adding an
// existing pair and removing an absent pair are both conflicts, kept
// distinct from "recipe does not exist".
type MembershipService interface {
	Add(ctx context.Context, userID, recipeID uuid.UUID, kind types.MembershipKind) (*RecipeShortView, error)
	Remove(ctx context.Context, userID, recipeID uuid.UUID, kind types.MembershipKind) error
}

type membershipService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRecipeRepo repos.UserRecipeRepo
	recipeRepo     repos.RecipeRepo
}

func NewMembershipService(
	db *gorm.DB,
	log *logger.Logger,
	userRecipeRepo repos.UserRecipeRepo,
	recipeRepo repos.RecipeRepo,
) MembershipService {
	serviceLog := log.With("service", "MembershipService")
	return &membershipService{
		db:             db,
		log:            serviceLog,
		userRecipeRepo: userRecipeRepo,
		recipeRepo:     recipeRepo,
	}
}

func (ms *membershipService) Add(ctx context.Context, userID, recipeID uuid.UUID, kind types.MembershipKind) (*RecipeShortView, error) {
	recipe, err := ms.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("load recipe: %w", err)
	}

	var view RecipeShortView
	err = ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := ms.userRecipeRepo.Exists(ctx, tx, userID, recipeID, kind)
		if err != nil {
			return fmt.Errorf("check membership: %w", err)
		}
		if exists {
			return apierr.Conflict(alreadyMessage(kind))
		}
		membership := &types.UserRecipe{
			ID:       uuid.New(),
			UserID:   userID,
			RecipeID: recipeID,
			Kind:     kind,
		}
		if _, err := ms.userRecipeRepo.Create(ctx, tx, []*types.UserRecipe{membership}); err != nil {
			return fmt.Errorf("create membership: %w", err)
		}
		view = shortView(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (ms *membershipService) Remove(ctx context.Context, userID, recipeID uuid.UUID, kind types.MembershipKind) error {
	if _, err := ms.recipeRepo.GetByID(ctx, nil, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("recipe not found")
		}
		return fmt.Errorf("load recipe: %w", err)
	}
	return ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := ms.userRecipeRepo.Exists(ctx, tx, userID, recipeID, kind)
		if err != nil {
			return fmt.Errorf("check membership: %w", err)
		}
		if !exists {
			return apierr.Conflict(notPresentMessage(kind))
		}
		return ms.userRecipeRepo.Delete(ctx, tx, userID, recipeID, kind)
	})
}

func alreadyMessage(kind types.MembershipKind) string {
	if kind == types.KindCart {
		return "this recipe is already in your shopping list"
	}
	return "recipe is already in favorites"
}

func notPresentMessage(kind types.MembershipKind) string {
	if kind == types.KindCart {
		return "this recipe is not in your shopping list"
	}
	return "recipe is not in favorites"
}
