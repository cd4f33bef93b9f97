package services

import (
	"errors"
	"fmt"
	"time"

	"thicket/internal/forum"
	"thicket/internal/models"
	"thicket/internal/utils"

	"gorm.io/gorm"
)

// DefaultCommentPageSize 评论分页默认每页条数
const DefaultCommentPageSize = 20

// CommentService 负责评论读写。comment_count 的维护是本服务的单一职责：
// 评论的创建/删除与计数更新在同一事务内完成，调用方不得自行调整计数。
type CommentService struct {
	db    *gorm.DB
	users *UserService
}

func NewCommentService(db *gorm.DB, users *UserService) *CommentService {
	return &CommentService{db: db, users: users}
}

// Create 追加评论并在同一事务内以单条语句递增所属帖子的 comment_count
func (c *CommentService) Create(postID uint, rawContent, author string) (*models.Comment, error) {
	if rawContent == "" {
		return nil, forum.ValidationErr("content is required")
	}

	comment := models.Comment{
		PostID:     postID,
		Content:    utils.RenderMarkdown(rawContent),
		RawContent: rawContent,
		Author:     author,
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return forum.StoreErr("create comment", err)
		}
		if count == 0 {
			return fmt.Errorf("post %d: %w", postID, forum.ErrNotFound)
		}

		if err := tx.Create(&comment).Error; err != nil {
			return forum.StoreErr("create comment", err)
		}

		// 单条原子语句，并发评论下不丢失更新
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
			return forum.StoreErr("create comment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

func (c *CommentService) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := c.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %d: %w", id, forum.ErrNotFound)
		}
		return nil, forum.StoreErr("get comment", err)
	}
	return &comment, nil
}

// Update 重写评论内容，重新渲染
func (c *CommentService) Update(id uint, rawContent string) error {
	if rawContent == "" {
		return forum.ValidationErr("content is required")
	}

	res := c.db.Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":     utils.RenderMarkdown(rawContent),
		"raw_content": rawContent,
	})
	if res.Error != nil {
		return forum.StoreErr("update comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment %d: %w", id, forum.ErrNotFound)
	}
	return nil
}

// Delete 删除评论并在同一事务内递减帖子计数，下限为 0
func (c *CommentService) Delete(id uint) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("comment %d: %w", id, forum.ErrNotFound)
			}
			return forum.StoreErr("delete comment", err)
		}

		if err := tx.Delete(&models.Comment{}, id).Error; err != nil {
			return forum.StoreErr("delete comment", err)
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("CASE WHEN comment_count > 0 THEN comment_count - 1 ELSE 0 END")).Error; err != nil {
			return forum.StoreErr("delete comment", err)
		}
		return nil
	})
}

// ListByPost 按楼层顺序分页返回帖子的评论。
//
// 楼层号是评论在整个帖子内按 created_at 升序（同秒按 id 升序）的 1-based 排名，
// 由窗口函数在完整排序集上计算后再切页，跨页稳定：pageSize=20 时第 2 页从 21 楼开始。
func (c *CommentService) ListByPost(postID uint, page, pageSize int) ([]models.Comment, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultCommentPageSize
	}
	offset := (page - 1) * pageSize

	// FloorNumber 不是数据库字段，经由显式的行结构体接收窗口函数结果
	type commentRow struct {
		ID          uint
		PostID      uint
		Content     string
		RawContent  string
		Author      string
		CreatedAt   time.Time
		FloorNumber int
	}

	var rows []commentRow
	err := c.db.Raw(`
		SELECT id, post_id, content, raw_content, author, created_at, floor_number
		FROM (
			SELECT c.*, ROW_NUMBER() OVER (ORDER BY c.created_at ASC, c.id ASC) AS floor_number
			FROM comments c
			WHERE c.post_id = ?
		) ranked
		ORDER BY floor_number ASC
		LIMIT ? OFFSET ?`,
		postID, pageSize, offset,
	).Scan(&rows).Error
	if err != nil {
		return nil, forum.StoreErr("list comments", err)
	}

	comments := make([]models.Comment, len(rows))
	for i, r := range rows {
		comments[i] = models.Comment{
			ID:          r.ID,
			PostID:      r.PostID,
			Content:     r.Content,
			RawContent:  r.RawContent,
			Author:      r.Author,
			CreatedAt:   r.CreatedAt,
			FloorNumber: r.FloorNumber,
		}
	}

	if err := c.fillAuthorAvatars(comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPost 帖子的评论总数，用于分页
func (c *CommentService) CountByPost(postID uint) (int64, error) {
	var count int64
	if err := c.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, forum.StoreErr("count comments", err)
	}
	return count, nil
}

// fillAuthorAvatars 批量填充评论者的头像哈希
func (c *CommentService) fillAuthorAvatars(comments []models.Comment) error {
	if len(comments) == 0 || c.users == nil {
		return nil
	}

	seen := make(map[string]bool)
	usernames := make([]string, 0, len(comments))
	for _, cm := range comments {
		if !seen[cm.Author] {
			seen[cm.Author] = true
			usernames = append(usernames, cm.Author)
		}
	}

	userMap, err := c.users.GetByUsernames(usernames)
	if err != nil {
		return err
	}

	for i := range comments {
		if u, ok := userMap[comments[i].Author]; ok {
			comments[i].AuthorAvatar = u.EmailHash
		}
	}
	return nil
}
