package services

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"thicket/internal/forum"
	"thicket/internal/models"
	"thicket/internal/utils"

	"gorm.io/gorm"
)

// UserService 负责用户凭证的创建、校验与更新。每进程构造一次，按引用传给 handler。
type UserService struct {
	db         *gorm.DB
	bcryptCost int
}

func NewUserService(db *gorm.DB, bcryptCost int) *UserService {
	return &UserService{db: db, bcryptCost: bcryptCost}
}

// UserUpdate 部分更新：nil 字段不变
type UserUpdate struct {
	Bio      *string
	Email    *string
	Password *string
}

// EmailHash 生成头像查询用的邮箱哈希（小写、去空白后取 md5）
func EmailHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// Register 创建新用户。用户名重复返回 ErrConflict，角色固定为 user，调用方不可指定。
func (s *UserService) Register(username, password, email, bio string) (uint, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, forum.ValidationErr("username is required")
	}
	if password == "" {
		return 0, forum.ValidationErr("password is required")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return 0, forum.StoreErr("register", err)
	}
	if count > 0 {
		return 0, fmt.Errorf("username %q: %w", username, forum.ErrConflict)
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return 0, forum.StoreErr("register", err)
	}

	user := models.User{
		Username:  username,
		Password:  hash,
		Email:     email,
		EmailHash: EmailHash(email),
		Bio:       bio,
		Role:      models.RoleUser,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return 0, forum.StoreErr("register", err)
	}

	return user.ID, nil
}

// Authenticate 按用户名取用户并校验密码。
// 用户不存在与密码错误统一返回 ErrAuthFailure，不泄露用户是否存在。
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, forum.ErrAuthFailure
		}
		return nil, forum.StoreErr("authenticate", err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, forum.ErrAuthFailure
	}

	return &user, nil
}

// Update 部分更新用户资料。密码重新哈希，邮箱变更时重算头像哈希。
func (s *UserService) Update(id uint, upd UserUpdate) error {
	updates := make(map[string]interface{})

	if upd.Bio != nil {
		updates["bio"] = *upd.Bio
	}
	if upd.Email != nil {
		updates["email"] = *upd.Email
		updates["email_hash"] = EmailHash(*upd.Email)
	}
	if upd.Password != nil {
		if *upd.Password == "" {
			return forum.ValidationErr("password must not be blank")
		}
		hash, err := utils.HashPassword(*upd.Password, s.bcryptCost)
		if err != nil {
			return forum.StoreErr("update user", err)
		}
		updates["password"] = hash
	}

	if len(updates) == 0 {
		return nil
	}

	res := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return forum.StoreErr("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, forum.ErrNotFound)
	}
	return nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, forum.ErrNotFound)
		}
		return nil, forum.StoreErr("get user", err)
	}
	return &user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, forum.ErrNotFound)
		}
		return nil, forum.StoreErr("get user", err)
	}
	return &user, nil
}

// GetByUsernames 批量查询用户，返回 username -> user 映射，用于评论列表填充头像
func (s *UserService) GetByUsernames(usernames []string) (map[string]models.User, error) {
	result := make(map[string]models.User, len(usernames))
	if len(usernames) == 0 {
		return result, nil
	}

	var users []models.User
	if err := s.db.Where("username IN ?", usernames).Find(&users).Error; err != nil {
		return nil, forum.StoreErr("get users", err)
	}

	for _, u := range users {
		result[u.Username] = u
	}
	return result, nil
}
