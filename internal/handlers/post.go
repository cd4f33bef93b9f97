package handlers

import (
	"net/http"

	"thicket/internal/middleware"
	"thicket/internal/services"
	"thicket/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts    *services.PostService
	comments *services.CommentService
}

func NewPostHandler(posts *services.PostService, comments *services.CommentService) *PostHandler {
	return &PostHandler{posts: posts, comments: comments}
}

// List 帖子列表，?tag= 或 ?author= 过滤，两者都传时 tag 优先
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(services.PostFilter{
		Tag:    c.Query("tag"),
		Author: c.Query("author"),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Detail 帖子详情，附带第一页评论
func (h *PostHandler) Detail(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	post, err := h.posts.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}

	comments, err := h.comments.ListByPost(id, 1, services.DefaultCommentPageSize)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "comments": comments})
}

type createPostRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Tag     *string `json:"tag"`
}

func (h *PostHandler) Create(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if err := services.Authorize(claims, "", services.ActionCreateContent); err != nil {
		RespondError(c, err)
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	post, err := h.posts.Create(req.Title, req.Content, claims.Username, req.Tag)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Tag     *string `json:"tag"`
}

// Update 编辑帖子：作者本人或管理员
func (h *PostHandler) Update(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	post, err := h.posts.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}

	claims := middleware.CurrentClaims(c)
	if err := services.Authorize(claims, post.Author, services.ActionEditContent); err != nil {
		RespondError(c, err)
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.posts.Update(id, services.PostUpdate{
		Title:   req.Title,
		Content: req.Content,
		Tag:     req.Tag,
	}); err != nil {
		RespondError(c, err)
		return
	}

	updated, err := h.posts.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete 删除帖子：仅管理员，评论随帖级联删除
func (h *PostHandler) Delete(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	post, err := h.posts.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}

	claims := middleware.CurrentClaims(c)
	if err := services.Authorize(claims, post.Author, services.ActionDeleteContent); err != nil {
		RespondError(c, err)
		return
	}

	if err := h.posts.Delete(id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
