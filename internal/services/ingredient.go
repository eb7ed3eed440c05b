package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/apierr"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/normalization"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/repos"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

type IngredientInput struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type IngredientService interface {
	Create(ctx context.Context, input IngredientInput) (*types.Ingredient, error)
	GetByID(ctx context.Context, ingredientID uuid.UUID) (*types.Ingredient, error)
	List(ctx context.Context, namePrefix string) ([]*types.Ingredient, error)
}

type ingredientService struct {
	db             *gorm.DB
	log            *logger.Logger
	ingredientRepo repos.IngredientRepo
}

func NewIngredientService(db *gorm.DB, log *logger.Logger, ingredientRepo repos.IngredientRepo) IngredientService {
	serviceLog := log.With("service", "IngredientService")
	return &ingredientService{db: db, log: serviceLog, ingredientRepo: ingredientRepo}
}

func (is *ingredientService) Create(ctx context.Context, input IngredientInput) (*types.Ingredient, error) {
	input.Name = normalization.TrimInputString(input.Name)
	input.MeasurementUnit = normalization.TrimInputString(input.MeasurementUnit)
	if input.Name == "" {
		return nil, apierr.Validation("name", "ingredient name is required")
	}
	if len(input.Name) > types.MaxLengthIngredient {
		return nil, apierr.Validation("name", "ingredient name is too long")
	}
	if input.MeasurementUnit == "" {
		return nil, apierr.Validation("measurement_unit", "measurement unit is required")
	}

	ingredient := &types.Ingredient{
		ID:              uuid.New(),
		Name:            input.Name,
		MeasurementUnit: input.MeasurementUnit,
	}
	if _, err := is.ingredientRepo.Create(ctx, nil, []*types.Ingredient{ingredient}); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	return ingredient, nil
}

func (is *ingredientService) GetByID(ctx context.Context, ingredientID uuid.UUID) (*types.Ingredient, error) {
	ingredients, err := is.ingredientRepo.GetByIDs(ctx, nil, []uuid.UUID{ingredientID})
	if err != nil {
		return nil, fmt.Errorf("load ingredient: %w", err)
	}
	if len(ingredients) == 0 {
		return nil, apierr.NotFound("ingredient not found")
	}
	return ingredients[0], nil
}

func (is *ingredientService) List(ctx context.Context, namePrefix string) ([]*types.Ingredient, error) {
	return is.ingredientRepo.List(ctx, nil, namePrefix)
}
