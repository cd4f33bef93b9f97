package models

import (
	"time"
)

type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	RawContent string    `gorm:"type:text" json:"raw_content"`
	Author     string    `gorm:"size:50;not null;index" json:"author"`
	CreatedAt  time.Time `json:"created_at"`

	// 非数据库字段，查询时填充
	FloorNumber  int    `gorm:"-" json:"floor_number"`  // 1-based rank within the post, stable across pages
	AuthorAvatar string `gorm:"-" json:"author_avatar"` // commenter email hash
}
