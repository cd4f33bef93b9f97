package handlers

import (
	"net/http"

	"thicket/internal/middleware"
	"thicket/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
	posts *services.PostService
}

func NewUserHandler(users *services.UserService, posts *services.PostService) *UserHandler {
	return &UserHandler{users: users, posts: posts}
}

// Profile 公开主页：用户资料加其发布的帖子
func (h *UserHandler) Profile(c *gin.Context) {
	username := c.Param("username")

	user, err := h.users.GetByUsername(username)
	if err != nil {
		RespondError(c, err)
		return
	}

	posts, err := h.posts.List(services.PostFilter{Author: username})
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "posts": posts})
}

type updateUserRequest struct {
	Bio      *string `json:"bio"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UpdateMe 当前用户的部分更新，缺省字段不变
func (h *UserHandler) UpdateMe(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.users.Update(claims.UserID, services.UserUpdate{
		Bio:      req.Bio,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	user, err := h.users.GetByID(claims.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
