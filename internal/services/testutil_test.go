package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/db"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/repos"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

// testEnv wires the full service stack against an in-memory sqlite
// database migrated with the production schema.
type testEnv struct {
	db *gorm.DB

	userRepo       repos.UserRepo
	tagRepo        repos.TagRepo
	ingredientRepo repos.IngredientRepo
	recipeRepo     repos.RecipeRepo
	lineRepo       repos.RecipeIngredientRepo
	userRecipeRepo repos.UserRecipeRepo
	followRepo     repos.FollowRepo

	auth         AuthService
	users        UserService
	tags         TagService
	ingredients  IngredientService
	recipes      RecipeService
	memberships  MembershipService
	shoppingList ShoppingListService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &testEnv{db: gormDB}
	env.userRepo = repos.NewUserRepo(gormDB, log)
	env.tagRepo = repos.NewTagRepo(gormDB, log)
	env.ingredientRepo = repos.NewIngredientRepo(gormDB, log)
	env.recipeRepo = repos.NewRecipeRepo(gormDB, log)
	env.lineRepo = repos.NewRecipeIngredientRepo(gormDB, log)
	env.userRecipeRepo = repos.NewUserRecipeRepo(gormDB, log)
	env.followRepo = repos.NewFollowRepo(gormDB, log)

	userTokenRepo := repos.NewUserTokenRepo(gormDB, log)
	env.auth = NewAuthService(gormDB, log, env.userRepo, userTokenRepo, "testsecret", time.Hour, 24*time.Hour)
	env.users = NewUserService(gormDB, log, env.userRepo, env.followRepo, env.recipeRepo)
	env.tags = NewTagService(gormDB, log, env.tagRepo)
	env.ingredients = NewIngredientService(gormDB, log, env.ingredientRepo)
	env.recipes = NewRecipeService(gormDB, log, env.recipeRepo, env.lineRepo, env.tagRepo, env.ingredientRepo, env.userRepo, env.userRecipeRepo, env.followRepo)
	env.memberships = NewMembershipService(gormDB, log, env.userRecipeRepo, env.recipeRepo)
	env.shoppingList = NewShoppingListService(gormDB, log, env.userRecipeRepo, env.lineRepo)
	return env
}

func (env *testEnv) mustCreateUser(t *testing.T, username string) *types.User {
	t.Helper()
	user := &types.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "sup3rsecret",
	}
	if err := env.auth.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func (env *testEnv) mustCreateTag(t *testing.T, name string) *types.Tag {
	t.Helper()
	tag, err := env.tags.Create(context.Background(), TagInput{Name: name, Color: "#49B64E"})
	if err != nil {
		t.Fatalf("create tag %s: %v", name, err)
	}
	return tag
}

func (env *testEnv) mustCreateIngredient(t *testing.T, name, unit string) *types.Ingredient {
	t.Helper()
	ing, err := env.ingredients.Create(context.Background(), IngredientInput{Name: name, MeasurementUnit: unit})
	if err != nil {
		t.Fatalf("create ingredient %s: %v", name, err)
	}
	return ing
}

func (env *testEnv) mustCreateRecipe(t *testing.T, authorID uuid.UUID, name string, tagIDs []uuid.UUID, lines []IngredientLineInput) *RecipeView {
	t.Helper()
	view, err := env.recipes.Create(context.Background(), authorID, RecipeInput{
		Name:        name,
		Image:       "recipes/" + name + ".png",
		Text:        "cook it",
		CookingTime: 30,
		TagIDs:      tagIDs,
		Ingredients: lines,
	})
	if err != nil {
		t.Fatalf("create recipe %s: %v", name, err)
	}
	return view
}

func listFilterByTags(slugs ...string) repos.RecipeFilter {
	return repos.RecipeFilter{TagSlugs: slugs}
}

func (env *testEnv) lineCount(t *testing.T) int64 {
	t.Helper()
	count, err := env.lineRepo.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("count lines: %v", err)
	}
	return count
}

func (env *testEnv) recipeCount(t *testing.T) int64 {
	t.Helper()
	count, err := env.recipeRepo.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("count recipes: %v", err)
	}
	return count
}
