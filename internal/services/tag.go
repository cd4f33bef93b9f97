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

const (
	tagCountsCacheKey = "tags:with_counts"
	tagCountsCacheTTL = 1 * time.Minute
)

// TagService 负责标签管理。标签只有管理员可写，权限判定在 handler 层完成。
type TagService struct {
	db    *gorm.DB
	cache *utils.Cache
}

func NewTagService(db *gorm.DB, cache *utils.Cache) *TagService {
	return &TagService{db: db, cache: cache}
}

// Create 新建标签，重名返回 ErrConflict
func (s *TagService) Create(name string) (*models.Tag, error) {
	if name == "" {
		return nil, forum.ValidationErr("tag name is required")
	}

	var count int64
	if err := s.db.Model(&models.Tag{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, forum.StoreErr("create tag", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("tag %q: %w", name, forum.ErrConflict)
	}

	tag := models.Tag{Name: name}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, forum.StoreErr("create tag", err)
	}

	s.invalidate()
	return &tag, nil
}

func (s *TagService) GetByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tag %d: %w", id, forum.ErrNotFound)
		}
		return nil, forum.StoreErr("get tag", err)
	}
	return &tag, nil
}

func (s *TagService) GetByName(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tag %q: %w", name, forum.ErrNotFound)
		}
		return nil, forum.StoreErr("get tag", err)
	}
	return &tag, nil
}

// All 返回全部标签，按名称升序
func (s *TagService) All() ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, forum.StoreErr("list tags", err)
	}
	return tags, nil
}

// AllWithCounts 返回全部标签及其实时帖子数，零帖标签也包含在内。
// post_count 是派生值（按名称关联的帖子计数），不落库，读取结果短暂缓存。
func (s *TagService) AllWithCounts() ([]models.Tag, error) {
	if s.cache != nil {
		if cached := s.cache.Get(tagCountsCacheKey); cached != nil {
			if tags, ok := cached.([]models.Tag); ok {
				return tags, nil
			}
		}
	}

	type tagRow struct {
		ID        uint
		Name      string
		CreatedAt time.Time
		UpdatedAt time.Time
		PostCount int
	}

	var rows []tagRow
	err := s.db.Raw(`
		SELECT t.id, t.name, t.created_at, t.updated_at, COUNT(p.id) AS post_count
		FROM tags t
		LEFT JOIN posts p ON p.tag = t.name
		GROUP BY t.id, t.name, t.created_at, t.updated_at
		ORDER BY t.name ASC`,
	).Scan(&rows).Error
	if err != nil {
		return nil, forum.StoreErr("list tags", err)
	}

	tags := make([]models.Tag, len(rows))
	for i, r := range rows {
		tags[i] = models.Tag{
			ID:        r.ID,
			Name:      r.Name,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			PostCount: r.PostCount,
		}
	}

	if s.cache != nil {
		s.cache.Set(tagCountsCacheKey, tags, tagCountsCacheTTL)
	}
	return tags, nil
}

// Update 重命名标签，新名重复返回 ErrConflict
func (s *TagService) Update(id uint, name string) error {
	if name == "" {
		return forum.ValidationErr("tag name is required")
	}

	var count int64
	if err := s.db.Model(&models.Tag{}).Where("name = ? AND id != ?", name, id).Count(&count).Error; err != nil {
		return forum.StoreErr("update tag", err)
	}
	if count > 0 {
		return fmt.Errorf("tag %q: %w", name, forum.ErrConflict)
	}

	res := s.db.Model(&models.Tag{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return forum.StoreErr("update tag", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("tag %d: %w", id, forum.ErrNotFound)
	}

	s.invalidate()
	return nil
}

// Delete 删除标签。引用该标签的帖子保留，标签引用悬空由读取侧按名聚合自然消失。
func (s *TagService) Delete(id uint) error {
	res := s.db.Delete(&models.Tag{}, id)
	if res.Error != nil {
		return forum.StoreErr("delete tag", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("tag %d: %w", id, forum.ErrNotFound)
	}

	s.invalidate()
	return nil
}

func (s *TagService) invalidate() {
	if s.cache != nil {
		s.cache.Delete(tagCountsCacheKey)
	}
}
