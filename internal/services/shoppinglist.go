package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/repos"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

// AggregatedLine is one summed shopping-list entry. The grouping key
// is ingredient identity (name, unit), never the recipe.
type AggregatedLine struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

// ShoppingList is the aggregate over every recipe in a user's cart.
// RecipeNames keeps cart insertion order; Lines are sorted by
// ingredient name, case-insensitively.
type ShoppingList struct {
	RecipeNames []string         `json:"recipe_names"`
	Recipes     []*types.Recipe  `json:"-"`
	Lines       []AggregatedLine `json:"lines"`
}

type ShoppingListService interface {
	Aggregate(ctx context.Context, userID uuid.UUID) (*ShoppingList, error)
	RenderText(list *ShoppingList) string
	RenderCSV(list *ShoppingList) ([]byte, error)
}

type shoppingListService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRecipeRepo repos.UserRecipeRepo
	lineRepo       repos.RecipeIngredientRepo
}

func NewShoppingListService(
	db *gorm.DB,
	log *logger.Logger,
	userRecipeRepo repos.UserRecipeRepo,
	lineRepo repos.RecipeIngredientRepo,
) ShoppingListService {
	serviceLog := log.With("service", "ShoppingListService")
	return &shoppingListService{
		db:             db,
		log:            serviceLog,
		userRecipeRepo: userRecipeRepo,
		lineRepo:       lineRepo,
	}
}

// Aggregate is a pure read: it never mutates stored entities, and an
// empty cart yields empty outputs rather than an error.
func (ss *shoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) (*ShoppingList, error) {
	memberships, err := ss.userRecipeRepo.ListByUser(ctx, nil, userID, types.KindCart)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	list := &ShoppingList{
		RecipeNames: []string{},
		Lines:       []AggregatedLine{},
	}

	recipeIDs := make([]uuid.UUID, 0, len(memberships))
	seen := make(map[uuid.UUID]struct{}, len(memberships))
	for _, m := range memberships {
		if _, dup := seen[m.RecipeID]; dup {
			continue
		}
		seen[m.RecipeID] = struct{}{}
		recipeIDs = append(recipeIDs, m.RecipeID)
		if m.Recipe != nil {
			list.RecipeNames = append(list.RecipeNames, m.Recipe.Name)
			list.Recipes = append(list.Recipes, m.Recipe)
		}
	}
	if len(recipeIDs) == 0 {
		return list, nil
	}

	lines, err := ss.lineRepo.ListByRecipeIDs(ctx, nil, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load ingredient lines: %w", err)
	}

	type identity struct {
		name string
		unit string
	}
	totals := make(map[identity]*AggregatedLine, len(lines))
	for _, line := range lines {
		if line.Ingredient == nil {
			continue
		}
		key := identity{name: line.Ingredient.Name, unit: line.Ingredient.MeasurementUnit}
		if agg, ok := totals[key]; ok {
			agg.TotalAmount += line.Amount
			continue
		}
		totals[key] = &AggregatedLine{
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			TotalAmount:     line.Amount,
		}
	}

	for _, agg := range totals {
		list.Lines = append(list.Lines, *agg)
	}
	sort.Slice(list.Lines, func(i, j int) bool {
		a := strings.ToLower(list.Lines[i].Name)
		b := strings.ToLower(list.Lines[j].Name)
		if a != b {
			return a < b
		}
		return list.Lines[i].MeasurementUnit < list.Lines[j].MeasurementUnit
	})
	return list, nil
}

// RenderText produces the plain-text export format.
func (ss *shoppingListService) RenderText(list *ShoppingList) string {
	var sb strings.Builder
	sb.WriteString("Вы выбрали следующие рецепты:\n\n")
	for _, name := range list.RecipeNames {
		sb.WriteString("- " + name + "\n")
	}
	sb.WriteString("\nСписок покупок:\n\n")
	for _, line := range list.Lines {
		sb.WriteString(fmt.Sprintf("%s (%d %s)\n", line.Name, line.TotalAmount, line.MeasurementUnit))
	}
	sb.WriteString("\nПриятного аппетита!")
	return sb.String()
}

// RenderCSV writes one row per cart recipe followed by the aggregated
// ingredients prefixed with "*".
func (ss *shoppingListService) RenderCSV(list *ShoppingList) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"Название", "Изображение", "Время приготовления", "Ингредиенты", "Описание"}); err != nil {
		return nil, err
	}
	for _, recipe := range list.Recipes {
		row := []string{
			recipe.Name,
			recipe.Image,
			strconv.Itoa(recipe.CookingTime),
			"",
			recipe.Text,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	for _, line := range list.Lines {
		row := []string{
			fmt.Sprintf("* %s (%s)", line.Name, line.MeasurementUnit),
			"",
			"",
			strconv.Itoa(line.TotalAmount),
			"",
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
