package models

import (
	"time"
)

type Post struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"not null" json:"title"`
	Content    string `gorm:"type:text" json:"content"`     // sanitized HTML
	RawContent string `gorm:"type:text" json:"raw_content"` // original markdown
	// Denormalized username, not a foreign key. Ownership checks compare against this.
	Author       string    `gorm:"size:50;not null;index" json:"author"`
	Tag          *string   `gorm:"size:50;index" json:"tag"` // nullable tag name reference
	CommentCount int       `gorm:"default:0;not null" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
