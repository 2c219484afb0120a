package comment

import (
	"time"

	"blogapi/internal/core/post"
	"blogapi/internal/core/user"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	PostID    uint      `gorm:"not null;index"`
	Post      post.Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint      `gorm:"not null;index"`
	Author    user.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// WithAuthor is a comment joined with its author's current username.
type WithAuthor struct {
	Comment
	AuthorUsername string
}
