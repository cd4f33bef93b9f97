package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"` // Immutable after registration
	Password  string    `gorm:"not null" json:"-"`                            // bcrypt hash
	Email     string    `gorm:"not null" json:"email"`
	EmailHash string    `gorm:"size:32" json:"email_hash"` // md5 of lowercased trimmed email, avatar lookup key
	Bio       string    `gorm:"size:200" json:"bio"`
	Role      string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
