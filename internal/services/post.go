package services

import (
	"errors"
	"fmt"

	"thicket/internal/forum"
	"thicket/internal/models"
	"thicket/internal/utils"

	"gorm.io/gorm"
)

// PostService 负责帖子的增删改查和评论计数的恢复原语
type PostService struct {
	db    *gorm.DB
	cache *utils.Cache
}

func NewPostService(db *gorm.DB, cache *utils.Cache) *PostService {
	return &PostService{db: db, cache: cache}
}

// PostFilter 列表过滤条件，同一时间只生效一个维度，tag 优先
type PostFilter struct {
	Tag    string
	Author string
}

// PostUpdate 部分更新：nil 字段不变。Content 为原始 Markdown，渲染由服务完成。
type PostUpdate struct {
	Title   *string
	Content *string
	Tag     *string // 指向空串表示清除标签
}

// Create 渲染并保存新帖，作者即所有者，评论计数从 0 开始
func (s *PostService) Create(title, rawContent, author string, tag *string) (*models.Post, error) {
	if title == "" {
		return nil, forum.ValidationErr("title is required")
	}

	post := models.Post{
		Title:      title,
		Content:    utils.RenderMarkdown(rawContent),
		RawContent: rawContent,
		Author:     author,
		Tag:        normalizeTag(tag),
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, forum.StoreErr("create post", err)
	}

	s.invalidateTagCounts()
	return &post, nil
}

func (s *PostService) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %d: %w", id, forum.ErrNotFound)
		}
		return nil, forum.StoreErr("get post", err)
	}
	return &post, nil
}

// List 返回帖子列表，最新在前。过滤维度互斥：tag 优先于 author，都为空返回全部。
func (s *PostService) List(filter PostFilter) ([]models.Post, error) {
	query := s.db.Order("created_at DESC, id DESC")
	switch {
	case filter.Tag != "":
		query = query.Where("tag = ?", filter.Tag)
	case filter.Author != "":
		query = query.Where("author = ?", filter.Author)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, forum.StoreErr("list posts", err)
	}
	return posts, nil
}

// Update 部分更新帖子，内容变更时重新走渲染管线
func (s *PostService) Update(id uint, upd PostUpdate) error {
	updates := make(map[string]interface{})

	if upd.Title != nil {
		if *upd.Title == "" {
			return forum.ValidationErr("title must not be blank")
		}
		updates["title"] = *upd.Title
	}
	if upd.Content != nil {
		updates["raw_content"] = *upd.Content
		updates["content"] = utils.RenderMarkdown(*upd.Content)
	}
	if upd.Tag != nil {
		updates["tag"] = normalizeTag(upd.Tag)
	}

	if len(updates) == 0 {
		return nil
	}

	res := s.db.Model(&models.Post{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return forum.StoreErr("update post", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post %d: %w", id, forum.ErrNotFound)
	}

	s.invalidateTagCounts()
	return nil
}

// Delete 删除帖子并在同一事务内级联删除其全部评论，评论不能在帖子之后存活
func (s *PostService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("post %d: %w", id, forum.ErrNotFound)
			}
			return forum.StoreErr("delete post", err)
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return forum.StoreErr("delete post comments", err)
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return forum.StoreErr("delete post", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateTagCounts()
	return nil
}

// IncrementCommentCount 评论计数恢复原语。正常请求路径不调用：
// 计数由 CommentService 在评论写入事务内维护，这里仅用于运维修正。
// 单条语句表达，避免读-改-写丢失更新。
func (s *PostService) IncrementCommentCount(postID uint) error {
	err := s.db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	if err != nil {
		return forum.StoreErr("increment comment count", err)
	}
	return nil
}

// DecrementCommentCount 同上，计数下限为 0，不会出现负数
func (s *PostService) DecrementCommentCount(postID uint) error {
	err := s.db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("comment_count", gorm.Expr("CASE WHEN comment_count > 0 THEN comment_count - 1 ELSE 0 END")).Error
	if err != nil {
		return forum.StoreErr("decrement comment count", err)
	}
	return nil
}

func (s *PostService) invalidateTagCounts() {
	if s.cache != nil {
		s.cache.Delete(tagCountsCacheKey)
	}
}

// normalizeTag 空串和 nil 统一存为 NULL
func normalizeTag(tag *string) *string {
	if tag == nil || *tag == "" {
		return nil
	}
	return tag
}
