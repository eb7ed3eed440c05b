package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/apierr"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/repos"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*UserView, error)
	GetByID(ctx context.Context, viewerID, userID uuid.UUID) (*UserView, error)
	Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*SubscriptionView, error)
	Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
	Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]*SubscriptionView, error)
}

type userService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	followRepo repos.FollowRepo
	recipeRepo repos.RecipeRepo
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	followRepo repos.FollowRepo,
	recipeRepo repos.RecipeRepo,
) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:         db,
		log:        serviceLog,
		userRepo:   userRepo,
		followRepo: followRepo,
		recipeRepo: recipeRepo,
	}
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user not found")
	}
	view := userView(users[0], false)
	return &view, nil
}

func (us *userService) GetByID(ctx context.Context, viewerID, userID uuid.UUID) (*UserView, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user not found")
	}
	subscribed := false
	if viewerID != uuid.Nil && viewerID != userID {
		subscribed, err = us.followRepo.Exists(ctx, nil, viewerID, userID)
		if err != nil {
			return nil, fmt.Errorf("check subscription: %w", err)
		}
	}
	view := userView(users[0], subscribed)
	return &view, nil
}

// Subscribe rejects self-follows before any existence check.
func (us *userService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*SubscriptionView, error) {
	if userID == authorID {
		return nil, apierr.Validation("author", "you can not subscribe to yourself")
	}
	authors, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{authorID})
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}
	if len(authors) == 0 {
		return nil, apierr.NotFound("user not found")
	}
	author := authors[0]

	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := us.followRepo.Exists(ctx, tx, userID, authorID)
		if err != nil {
			return fmt.Errorf("check follow: %w", err)
		}
		if exists {
			return apierr.Conflict("you already subscribe to this user")
		}
		follow := &types.Follow{
			ID:       uuid.New(),
			UserID:   userID,
			AuthorID: authorID,
		}
		if _, err := us.followRepo.Create(ctx, tx, []*types.Follow{follow}); err != nil {
			return fmt.Errorf("create follow: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return us.subscriptionView(ctx, author, types.DefaultRecipesLimit)
}

func (us *userService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	authors, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{authorID})
	if err != nil {
		return fmt.Errorf("load author: %w", err)
	}
	if len(authors) == 0 {
		return apierr.NotFound("user not found")
	}
	return us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := us.followRepo.Exists(ctx, tx, userID, authorID)
		if err != nil {
			return fmt.Errorf("check follow: %w", err)
		}
		if !exists {
			return apierr.Conflict("you do not subscribe to this user")
		}
		return us.followRepo.Delete(ctx, tx, userID, authorID)
	})
}

func (us *userService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]*SubscriptionView, error) {
	if recipesLimit <= 0 {
		recipesLimit = types.DefaultRecipesLimit
	}
	follows, err := us.followRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	views := make([]*SubscriptionView, 0, len(follows))
	for _, follow := range follows {
		if follow.Author == nil {
			continue
		}
		view, err := us.subscriptionView(ctx, follow.Author, recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (us *userService) subscriptionView(ctx context.Context, author *types.User, recipesLimit int) (*SubscriptionView, error) {
	recipes, err := us.recipeRepo.ListByAuthor(ctx, nil, author.ID, recipesLimit)
	if err != nil {
		return nil, fmt.Errorf("list author recipes: %w", err)
	}
	count, err := us.recipeRepo.CountByAuthor(ctx, nil, author.ID)
	if err != nil {
		return nil, fmt.Errorf("count author recipes: %w", err)
	}
	shorts := make([]RecipeShortView, 0, len(recipes))
	for _, recipe := range recipes {
		shorts = append(shorts, shortView(recipe))
	}
	return &SubscriptionView{
		ID:           author.ID,
		Email:        author.Email,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: true,
		Recipes:      shorts,
		RecipesCount: count,
	}, nil
}
