package user

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// MaxUsernameLength matches the width of the username column.
const MaxUsernameLength = 150

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"type:varchar(150);not null"`
	UsernameKey  string    `gorm:"type:varchar(150);not null;uniqueIndex:uix_users_username_key"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

var folder = cases.Fold()

// UsernameKey returns the case-folded form used for uniqueness and lookups,
// so "Alice" and "alice" name the same account on every database engine.
func UsernameKey(username string) string {
	return folder.String(strings.TrimSpace(username))
}
