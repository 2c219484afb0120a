package post

import (
	"time"

	"blogapi/internal/core/user"
)

const MaxTitleLength = 255

// Post is a plain record. Author exists only so AutoMigrate emits the
// cascading foreign key; it is never preloaded.
type Post struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Content   string    `gorm:"type:text;not null"`
	AuthorID  uint      `gorm:"not null;index"`
	Author    user.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Patch carries the fields of a partial update; nil means unchanged.
type Patch struct {
	Title   *string
	Content *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Content == nil
}

// WithAuthor is a post joined with its author's current username.
type WithAuthor struct {
	Post
	AuthorUsername string
}
