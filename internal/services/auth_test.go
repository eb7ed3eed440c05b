package services

import (
	"context"
	"testing"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/apierr"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/requestdata"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

func TestRegisterUser_NormalizesAndHashes(t *testing.T) {
	env := newTestEnv(t)
	user := &types.User{
		Email:     "  Chef@Example.COM ",
		Username:  "Chef",
		FirstName: " Ivan ",
		LastName:  " Ivanov ",
		Password:  "sup3rsecret",
	}
	if err := env.auth.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "chef@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.FirstName != "Ivan" || user.LastName != "Ivanov" {
		t.Fatalf("expected trimmed names, got %q %q", user.FirstName, user.LastName)
	}
	if user.Password == "sup3rsecret" {
		t.Fatalf("expected password to be hashed")
	}
}

func TestRegisterUser_RejectsBadUsernameAndDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bad := &types.User{
		Email:     "bad@example.com",
		Username:  "has spaces!",
		FirstName: "A",
		LastName:  "B",
		Password:  "pw123456",
	}
	err := env.auth.RegisterUser(ctx, bad)
	if apiErr, ok := apierr.As(err); !ok || apiErr.Field != "username" {
		t.Fatalf("expected username validation error, got %v", err)
	}

	env.mustCreateUser(t, "taken")

	dupEmail := &types.User{
		Email:     "taken@example.com",
		Username:  "someoneelse",
		FirstName: "A",
		LastName:  "B",
		Password:  "pw123456",
	}
	err = env.auth.RegisterUser(ctx, dupEmail)
	if apiErr, ok := apierr.As(err); !ok || apiErr.Code != apierr.CodeConflict {
		t.Fatalf("expected email conflict, got %v", err)
	}

	dupUsername := &types.User{
		Email:     "fresh@example.com",
		Username:  "taken",
		FirstName: "A",
		LastName:  "B",
		Password:  "pw123456",
	}
	err = env.auth.RegisterUser(ctx, dupUsername)
	if apiErr, ok := apierr.As(err); !ok || apiErr.Code != apierr.CodeConflict {
		t.Fatalf("expected username conflict, got %v", err)
	}
}

func TestLoginUser_TokenRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	user := env.mustCreateUser(t, "chef")
	ctx := context.Background()

	access, refresh, err := env.auth.LoginUser(ctx, "chef@example.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens, got %q %q", access, refresh)
	}

	authed, err := env.auth.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("expected request data for %s, got %+v", user.ID, rd)
	}

	if _, err := env.auth.SetContextFromToken(ctx, access+"tampered"); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestLoginUser_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateUser(t, "chef")

	_, _, err := env.auth.LoginUser(context.Background(), "chef@example.com", "wrong")
	if err == nil {
		t.Fatalf("expected login failure")
	}
	_, _, err = env.auth.LoginUser(context.Background(), "nobody@example.com", "whatever")
	if err == nil {
		t.Fatalf("expected login failure for unknown email")
	}
}

func TestRefreshUser_RotatesToken(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateUser(t, "chef")
	ctx := context.Background()

	_, refresh, err := env.auth.LoginUser(ctx, "chef@example.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rdCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: refresh})
	newAccess, newRefresh, err := env.auth.RefreshUser(rdCtx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if newAccess == "" || newRefresh == "" || newRefresh == refresh {
		t.Fatalf("expected rotated tokens")
	}

	// The old refresh token is single-use.
	if _, _, err := env.auth.RefreshUser(rdCtx); err == nil {
		t.Fatalf("expected reuse of rotated refresh token to fail")
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.mustCreateUser(t, "chef")
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: user.ID})

	err := env.auth.ChangePassword(ctx, "wrong", "newpassword1")
	if apiErr, ok := apierr.As(err); !ok || apiErr.Field != "current_password" {
		t.Fatalf("expected current password rejection, got %v", err)
	}

	if err := env.auth.ChangePassword(ctx, "sup3rsecret", "newpassword1"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, err := env.auth.LoginUser(context.Background(), "chef@example.com", "newpassword1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := env.auth.LoginUser(context.Background(), "chef@example.com", "sup3rsecret"); err == nil {
		t.Fatalf("expected old password to stop working")
	}
}
