package like

import (
	"time"

	"blogapi/internal/core/post"
	"blogapi/internal/core/user"
)

// Like is unique per (post, user); the index is what arbitrates concurrent
// likes, not the application check.
type Like struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	PostID    uint      `gorm:"not null;uniqueIndex:uix_post_user"`
	Post      post.Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:uix_post_user;index"`
	User      user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Counts is the engagement aggregate shown with every post.
type Counts struct {
	Likes    int64
	Comments int64
}
