package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/apierr"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

func TestRecipeCreate_WritesRecipeTagsAndLines(t *testing.T) {
	env := newTestEnv(t)
	author := env.mustCreateUser(t, "chef")
	tag := env.mustCreateTag(t, "Breakfast")
	flour := env.mustCreateIngredient(t, "Flour", "g")
	egg := env.mustCreateIngredient(t, "Egg", "pcs")

	view := env.mustCreateRecipe(t, author.ID, "Pancakes", []uuid.UUID{tag.ID}, []IngredientLineInput{
		{IngredientID: flour.ID, Amount: 200},
		{IngredientID: egg.ID, Amount: 2},
	})

	if view.Name != "Pancakes" {
		t.Fatalf("expected name Pancakes, got %q", view.Name)
	}
	if len(view.Tags) != 1 || view.Tags[0].ID != tag.ID {
		t.Fatalf("expected one tag %s, got %+v", tag.ID, view.Tags)
	}
	if len(view.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredient lines, got %d", len(view.Ingredients))
	}
	if view.Author.Username != "chef" {
		t.Fatalf("expected author chef, got %q", view.Author.Username)
	}
	if view.PubDate.IsZero() {
		t.Fatalf("expected pub date to be set")
	}
}

func TestRecipeCreate_RejectsDuplicateIngredients(t *testing.T) {
	env := newTestEnv(t)
	author := env.mustCreateUser(t, "chef")
	tag := env.mustCreateTag(t, "Lunch")
	flour := env.mustCreateIngredient(t, "Flour", "g")

	_, err := env.recipes.Create(context.Background(), author.ID, RecipeInput{
		Name:        "Bread",
		Image:       "recipes/bread.png",
		Text:        "bake it",
		CookingTime: 60,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []IngredientLineInput{
			{IngredientID: flour.ID, Amount: 100},
			{IngredientID: flour.ID, Amount: 50},
		},
	})
	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Field != "ingredients" {
		t.Fatalf("expected ingredients validation error, got %v", err)
	}
	// Nothing may survive a rejected authoring request.
	if got := env.recipeCount(t); got != 0 {
		t.Fatalf("expected no recipes, got %d", got)
	}
	if got := env.lineCount(t); got != 0 {
		t.Fatalf("expected no ingredient lines, got %d", got)
	}
}

func TestRecipeCreate_RejectsDuplicateTags(t *testing.T) {
	env := newTestEnv(t)
	author := env.mustCreateUser(t, "chef")
	tag := env.mustCreateTag(t, "Dinner")
	flour := env.mustCreateIngredient(t, "Flour", "g")

	_, err := env.recipes.Create(context.Background(), author.ID, RecipeInput{
		Name:        "Pasta",
		Image:       "recipes/pasta.png",
		Text:        "boil it",
		CookingTime: 20,
		TagIDs:      []uuid.UUID{tag.ID, tag.ID},
		Ingredients: []IngredientLineInput{{IngredientID: flour.ID, Amount: 100}},
	})
	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Field != "tags" {
		t.Fatalf("expected tags validation error, got %v", err)
	}
}

func TestRecipeCreate_RejectsOutOfBoundsValues(t *testing.T) {
	env := newTestEnv(t)
	author := env.mustCreateUser(t, "chef")
	tag := env.mustCreateTag(t, "Snack")
	flour := env.mustCreateIngredient(t, "Flour", "g")

	base := RecipeInput{
		Name:        "Cookie",
		Image:       "recipes/cookie.png",
		Text:        "bake",
		CookingTime: 15,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []IngredientLineInput{{IngredientID: flour.ID, Amount: 10}},
	}

	tooLong := base
	tooLong.CookingTime = 1001
	if _, err := env.recipes.Create(context.Background(), author.ID, tooLong); err == nil {
		t.Fatalf("expected cooking time above bound to be rejected")
	}

	zeroTime := base
	zeroTime.CookingTime = 0
	if _, err := env.recipes.Create(context.Background(), author.ID, zeroTime); err == nil {
		t.Fatalf("expected zero cooking time to be rejected")
	}

	badAmount := base
	badAmount.Ingredients = []IngredientLineInput{{IngredientID: flour.ID, Amount: 10001}}
	if _, err := env.recipes.Create(context.Background(), author.ID, badAmount); err == nil {
		t.Fatalf("expected amount above bound to be rejected")
	}

	noTags := base
	noTags.TagIDs = nil
	if _, err := env.recipes.Create(context.Background(), author.ID, noTags); err == nil {
		t.Fatalf("expected empty tag set to be rejected")
	}

	noLines := base
	noLines.Ingredients = nil
	if _, err := env.recipes.Create(context.Background(), author.ID, noLines); err == nil {
		t.Fatalf("expected empty ingredient set to be rejected")
	}
}

func TestRecipeCreate_UnknownTagOrIngredientRejected(t *testing.T) {
	env := newTestEnv(t)
	author := env.mustCreateUser(t, "chef")
	tag := env.mustCreateTag(t, "Soup")
	flour := env.mustCreateIngredient(t, "Flour", "g")

	_, err := env.recipes.Create(context.Background(), author.ID, RecipeInput{
		Name:        "Mystery",
		Image:       "recipes/m.png",
		Text:        "?",
		CookingTime: 10,
		TagIDs:      []uuid.UUID{uuid.New()},
		Ingredients: []IngredientLineInput{{IngredientID: flour.ID, Amount: 1}},
	})
	if apiErr, ok := apierr.As(err); !ok || apiErr.Field != "tags" {
		t.Fatalf("expected unknown tag rejection, got %v", err)
	}

	_, err = env.recipes.Create(context.Background(), author.ID, RecipeInput{
		Name:        "Mystery",
		Image:       "recipes/m.png",
		Text:        "?",
		CookingTime: 10,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []IngredientLineInput{{IngredientID: uuid.New(), Amount: 1}},
	})
	if apiErr, ok := apierr.As(err); !ok || apiErr.Field != "ingredients" {
		t.Fatalf("expected unknown ingredient rejection, got %v", err)
	}
}

func TestRecipeCreate_NameUniquePerAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	first := env.mustCreateUser(t, "first")
	second := env.mustCreateUser(t, "second")
	tag := env.mustCreateTag(t, "Dessert")
	sugar := env.mustCreateIngredient(t, "Sugar", "g")
	lines := []IngredientLineInput{{IngredientID: sugar.ID, Amount: 40}}

	env.mustCreateRecipe(t, first.ID, "Cake", []uuid.UUID{tag.ID}, lines)

	_, err := env.recipes.Create(context.Background(), first.ID, RecipeInput{
		Name:        "Cake",
		Image:       "recipes/cake2.png",
		Text:        "again",
		CookingTime: 45,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: lines,
	})
	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Code != apierr.CodeConflict {
		t.Fatalf("expected conflict for duplicate name, got %v", err)
	}

	// A different author may reuse the name.
	env.mustCreateRecipe(t, second.ID, "Cake", []uuid.UUID{tag.ID}, lines)
}

func TestRecipeUpdate_ReplacesLinesAndKeepsPubDate(t *testing.T) {
	env := newTestEnv(t)
	author := env.mustCreateUser(t, "chef")
	tag := env.mustCreateTag(t, "Base")
	other := env.mustCreateTag(t, "Updated")
	a := env.mustCreateIngredient(t, "Salt", "g")
	b := env.mustCreateIngredient(t, "Pepper", "g")
	c := env.mustCreateIngredient(t, "Basil", "g")

	created := env.mustCreateRecipe(t, author.ID, "Stew", []uuid.UUID{tag.ID}, []IngredientLineInput{
		{IngredientID: a.ID, Amount: 1},
		{IngredientID: b.ID, Amount: 2},
	})

	updated, err := env.recipes.Update(context.Background(), author.ID, created.ID, RecipeInput{
		Name:        "Stew",
		Text:        "richer",
		CookingTime: 90,
		TagIDs:      []uuid.UUID{other.ID},
		Ingredients: []IngredientLineInput{
			{IngredientID: b.ID, Amount: 3},
			{IngredientID: c.ID, Amount: 4},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(updated.Ingredients) != 2 {
		t.Fatalf("expected 2 lines after update, got %d", len(updated.Ingredients))
	}
	byID := map[uuid.UUID]int{}
	for _, line := range updated.Ingredients {
		byID[line.ID] = line.Amount
	}
	if byID[b.ID] != 3 || byID[c.ID] != 4 {
		t.Fatalf("expected replaced line set {pepper:3 basil:4}, got %+v", byID)
	}
	if _, kept := byID[a.ID]; kept {
		t.Fatalf("expected omitted ingredient to be removed")
	}
	if len(updated.Tags) != 1 || updated.Tags[0].ID != other.ID {
		t.Fatalf("expected tag set replaced, got %+v", updated.Tags)
	}
	if !updated.PubDate.Equal(created.PubDate) {
		t.Fatalf("expected pub date %v preserved, got %v", created.PubDate, updated.PubDate)
	}
	// Empty image on update keeps the stored one.
	if updated.Image != created.Image {
		t.Fatalf("expected image %q kept, got %q", created.Image, updated.Image)
	}
	if got := env.lineCount(t); got != 2 {
		t.Fatalf("expected 2 stored lines, got %d", got)
	}
}

func TestRecipeUpdate_OnlyAuthorMayEdit(t *testing.T) {
	env := newTestEnv(t)
	author := env.mustCreateUser(t, "chef")
	intruder := env.mustCreateUser(t, "intruder")
	tag := env.mustCreateTag(t, "Guarded")
	salt := env.mustCreateIngredient(t, "Salt", "g")
	lines := []IngredientLineInput{{IngredientID: salt.ID, Amount: 5}}

	created := env.mustCreateRecipe(t, author.ID, "Secret", []uuid.UUID{tag.ID}, lines)

	_, err := env.recipes.Update(context.Background(), intruder.ID, created.ID, RecipeInput{
		Name:        "Stolen",
		CookingTime: 10,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: lines,
	})
	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Code != apierr.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	if err := env.recipes.Delete(context.Background(), intruder.ID, created.ID); err == nil {
		t.Fatalf("expected delete by non-author to fail")
	}
}

func TestRecipeDelete_RemovesLines(t *testing.T) {
	env := newTestEnv(t)
	author := env.mustCreateUser(t, "chef")
	tag := env.mustCreateTag(t, "Gone")
	salt := env.mustCreateIngredient(t, "Salt", "g")

	created := env.mustCreateRecipe(t, author.ID, "Ephemeral", []uuid.UUID{tag.ID}, []IngredientLineInput{
		{IngredientID: salt.ID, Amount: 5},
	})

	if err := env.recipes.Delete(context.Background(), author.ID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := env.recipeCount(t); got != 0 {
		t.Fatalf("expected no recipes, got %d", got)
	}
	if got := env.lineCount(t); got != 0 {
		t.Fatalf("expected no orphan lines, got %d", got)
	}

	_, err := env.recipes.GetByID(context.Background(), author.ID, created.ID)
	if apiErr, ok := apierr.As(err); !ok || apiErr.Code != apierr.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestRecipeList_FiltersByTagAndAuthor(t *testing.T) {
	env := newTestEnv(t)
	chef := env.mustCreateUser(t, "chef")
	baker := env.mustCreateUser(t, "baker")
	sweet := env.mustCreateTag(t, "Sweet")
	savory := env.mustCreateTag(t, "Savory")
	salt := env.mustCreateIngredient(t, "Salt", "g")
	lines := []IngredientLineInput{{IngredientID: salt.ID, Amount: 1}}

	env.mustCreateRecipe(t, chef.ID, "Candy", []uuid.UUID{sweet.ID}, lines)
	env.mustCreateRecipe(t, chef.ID, "Jerky", []uuid.UUID{savory.ID}, lines)
	env.mustCreateRecipe(t, baker.ID, "Tart", []uuid.UUID{sweet.ID}, lines)

	ctx := context.Background()

	page, err := env.recipes.List(ctx, uuid.Nil, listFilterByTags("sweet"))
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if page.Count != 2 {
		t.Fatalf("expected 2 sweet recipes, got %d", page.Count)
	}

	authorFilter := listFilterByTags()
	authorFilter.AuthorID = baker.ID
	page, err = env.recipes.List(ctx, uuid.Nil, authorFilter)
	if err != nil {
		t.Fatalf("list by author: %v", err)
	}
	if page.Count != 1 || page.Results[0].Name != "Tart" {
		t.Fatalf("expected only Tart for baker, got %+v", page.Results)
	}
}

func TestRecipeList_FavoritedFilterAndViewerFlags(t *testing.T) {
	env := newTestEnv(t)
	chef := env.mustCreateUser(t, "chef")
	fan := env.mustCreateUser(t, "fan")
	tag := env.mustCreateTag(t, "Any")
	salt := env.mustCreateIngredient(t, "Salt", "g")
	lines := []IngredientLineInput{{IngredientID: salt.ID, Amount: 1}}

	liked := env.mustCreateRecipe(t, chef.ID, "Liked", []uuid.UUID{tag.ID}, lines)
	env.mustCreateRecipe(t, chef.ID, "Ignored", []uuid.UUID{tag.ID}, lines)

	ctx := context.Background()
	if _, err := env.memberships.Add(ctx, fan.ID, liked.ID, types.KindFavorite); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	filter := listFilterByTags()
	filter.FavoritedBy = fan.ID
	page, err := env.recipes.List(ctx, fan.ID, filter)
	if err != nil {
		t.Fatalf("list favorited: %v", err)
	}
	if page.Count != 1 || page.Results[0].ID != liked.ID {
		t.Fatalf("expected only the favorited recipe, got %+v", page.Results)
	}
	if !page.Results[0].IsFavorited {
		t.Fatalf("expected is_favorited true for viewer")
	}

	// Anonymous viewers never see membership flags.
	view, err := env.recipes.GetByID(ctx, uuid.Nil, liked.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.IsFavorited || view.IsInShoppingCart {
		t.Fatalf("expected derived flags false for anonymous viewer")
	}
}
