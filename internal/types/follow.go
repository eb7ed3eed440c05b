package types

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a (follower, author) subscription edge. Self-follows are
// rejected in the service before any row is touched.
type Follow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_follow_user_author,unique,priority:1" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index:idx_follow_user_author,unique,priority:2" json:"author_id"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Follow) TableName() string {
	return "follow"
}
