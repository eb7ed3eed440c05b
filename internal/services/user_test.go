package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/apierr"
)

func TestSubscribe_SelfFollowRejectedFirst(t *testing.T) {
	env := newTestEnv(t)
	user := env.mustCreateUser(t, "loner")

	_, err := env.users.Subscribe(context.Background(), user.ID, user.ID)
	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Code != apierr.CodeValidation {
		t.Fatalf("expected validation error for self-follow, got %v", err)
	}

	// Self-follow is rejected even when the id does not exist yet.
	ghost := uuid.New()
	_, err = env.users.Subscribe(context.Background(), ghost, ghost)
	if apiErr, ok := apierr.As(err); !ok || apiErr.Code != apierr.CodeValidation {
		t.Fatalf("expected validation before existence check, got %v", err)
	}
}

func TestSubscribe_DoubleSubscribeIsConflict(t *testing.T) {
	env := newTestEnv(t)
	fan := env.mustCreateUser(t, "fan")
	author := env.mustCreateUser(t, "author")

	ctx := context.Background()
	view, err := env.users.Subscribe(ctx, fan.ID, author.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if view.ID != author.ID || !view.IsSubscribed {
		t.Fatalf("unexpected subscription view: %+v", view)
	}

	_, err = env.users.Subscribe(ctx, fan.ID, author.ID)
	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Code != apierr.CodeConflict {
		t.Fatalf("expected conflict on double subscribe, got %v", err)
	}
}

func TestUnsubscribe_AbsentFollowIsConflict(t *testing.T) {
	env := newTestEnv(t)
	fan := env.mustCreateUser(t, "fan")
	author := env.mustCreateUser(t, "author")

	ctx := context.Background()
	err := env.users.Unsubscribe(ctx, fan.ID, author.ID)
	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Code != apierr.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	if _, err := env.users.Subscribe(ctx, fan.ID, author.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := env.users.Unsubscribe(ctx, fan.ID, author.ID); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
}

func TestSubscriptions_CapsRecipesAndCountsAll(t *testing.T) {
	env := newTestEnv(t)
	fan := env.mustCreateUser(t, "fan")
	author := env.mustCreateUser(t, "author")
	tag := env.mustCreateTag(t, "Feed")
	salt := env.mustCreateIngredient(t, "Salt", "g")
	lines := []IngredientLineInput{{IngredientID: salt.ID, Amount: 1}}

	for _, name := range []string{"One", "Two", "Three", "Four", "Five"} {
		env.mustCreateRecipe(t, author.ID, name, []uuid.UUID{tag.ID}, lines)
	}

	ctx := context.Background()
	if _, err := env.users.Subscribe(ctx, fan.ID, author.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	views, err := env.users.Subscriptions(ctx, fan.ID, 2)
	if err != nil {
		t.Fatalf("subscriptions: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected one followed author, got %d", len(views))
	}
	if len(views[0].Recipes) != 2 {
		t.Fatalf("expected recipes capped at 2, got %d", len(views[0].Recipes))
	}
	if views[0].RecipesCount != 5 {
		t.Fatalf("expected total count 5, got %d", views[0].RecipesCount)
	}

	// Zero limit falls back to the default cap.
	views, err = env.users.Subscriptions(ctx, fan.ID, 0)
	if err != nil {
		t.Fatalf("subscriptions default limit: %v", err)
	}
	if len(views[0].Recipes) != 3 {
		t.Fatalf("expected default cap of 3, got %d", len(views[0].Recipes))
	}
}

func TestGetByID_DerivesIsSubscribed(t *testing.T) {
	env := newTestEnv(t)
	fan := env.mustCreateUser(t, "fan")
	author := env.mustCreateUser(t, "author")

	ctx := context.Background()
	view, err := env.users.GetByID(ctx, fan.ID, author.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.IsSubscribed {
		t.Fatalf("expected is_subscribed false before following")
	}

	if _, err := env.users.Subscribe(ctx, fan.ID, author.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	view, err = env.users.GetByID(ctx, fan.ID, author.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !view.IsSubscribed {
		t.Fatalf("expected is_subscribed true after following")
	}
}
