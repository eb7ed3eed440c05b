package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

type FollowRepo interface {
	Create(ctx context.Context, tx *gorm.DB, follows []*types.Follow) ([]*types.Follow, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Follow, error)
}

type followRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFollowRepo(db *gorm.DB, baseLog *logger.Logger) FollowRepo {
	repoLog := baseLog.With("repo", "FollowRepo")
	return &followRepo{db: db, log: repoLog}
}

func (fr *followRepo) Create(ctx context.Context, tx *gorm.DB, follows []*types.Follow) ([]*types.Follow, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(follows) == 0 {
		return []*types.Follow{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&follows).Error; err != nil {
		return nil, err
	}
	return follows, nil
}

func (fr *followRepo) Exists(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (fr *followRepo) Delete(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&types.Follow{}).Error
}

func (fr *followRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Follow, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Follow
	if err := transaction.WithContext(ctx).
		Preload("Author").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
