package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	slugify "github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/apierr"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/normalization"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/repos"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

// Accepts #RRGGBB or #RGB.
var tagColorRe = regexp.MustCompile(`^#([0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})$`)

type TagInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type TagService interface {
	Create(ctx context.Context, input TagInput) (*types.Tag, error)
	GetByID(ctx context.Context, tagID uuid.UUID) (*types.Tag, error)
	List(ctx context.Context) ([]*types.Tag, error)
}

type tagService struct {
	db      *gorm.DB
	log     *logger.Logger
	tagRepo repos.TagRepo
}

func NewTagService(db *gorm.DB, log *logger.Logger, tagRepo repos.TagRepo) TagService {
	serviceLog := log.With("service", "TagService")
	return &tagService{db: db, log: serviceLog, tagRepo: tagRepo}
}

// ValidateTagColor reports whether color is a well-formed HEX color.
func ValidateTagColor(color string) bool {
	return tagColorRe.MatchString(color)
}

func (ts *tagService) Create(ctx context.Context, input TagInput) (*types.Tag, error) {
	input.Name = normalization.TrimInputString(input.Name)
	if input.Name == "" {
		return nil, apierr.Validation("name", "tag name is required")
	}
	if len(input.Name) > types.MaxLengthTag {
		return nil, apierr.Validation("name", "tag name is too long")
	}
	if !ValidateTagColor(input.Color) {
		return nil, apierr.Validation("color", `color must be a HEX value like "#FF0000" or "#F00"`)
	}
	if input.Slug == "" {
		input.Slug = slugify.Make(input.Name)
	}
	existing, err := ts.tagRepo.GetBySlugs(ctx, nil, []string{input.Slug})
	if err != nil {
		return nil, fmt.Errorf("check tag slug: %w", err)
	}
	if len(existing) > 0 {
		return nil, apierr.Conflict("tag slug is already in use")
	}

	tag := &types.Tag{
		ID:    uuid.New(),
		Name:  input.Name,
		Color: input.Color,
		Slug:  input.Slug,
	}
	if _, err := ts.tagRepo.Create(ctx, nil, []*types.Tag{tag}); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

func (ts *tagService) GetByID(ctx context.Context, tagID uuid.UUID) (*types.Tag, error) {
	tags, err := ts.tagRepo.GetByIDs(ctx, nil, []uuid.UUID{tagID})
	if err != nil {
		return nil, fmt.Errorf("load tag: %w", err)
	}
	if len(tags) == 0 {
		return nil, apierr.NotFound("tag not found")
	}
	return tags[0], nil
}

func (ts *tagService) List(ctx context.Context) ([]*types.Tag, error) {
	return ts.tagRepo.List(ctx, nil)
}
