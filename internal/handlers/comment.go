package handlers

import (
	"math"
	"net/http"

	"thicket/internal/middleware"
	"thicket/internal/services"
	"thicket/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// ListByPost 帖子的评论分页，楼层号跨页连续
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID := utils.StringToUint(c.Param("id"))
	page, pageSize := pageParams(c, services.DefaultCommentPageSize)

	comments, err := h.comments.ListByPost(postID, page, pageSize)
	if err != nil {
		RespondError(c, err)
		return
	}

	total, err := h.comments.CountByPost(postID)
	if err != nil {
		RespondError(c, err)
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":    comments,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": totalPages,
	})
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if err := services.Authorize(claims, "", services.ActionCreateContent); err != nil {
		RespondError(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	postID := utils.StringToUint(c.Param("id"))
	comment, err := h.comments.Create(postID, req.Content, claims.Username)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update 编辑评论：作者本人或管理员
func (h *CommentHandler) Update(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	comment, err := h.comments.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}

	claims := middleware.CurrentClaims(c)
	if err := services.Authorize(claims, comment.Author, services.ActionEditContent); err != nil {
		RespondError(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.comments.Update(id, req.Content); err != nil {
		RespondError(c, err)
		return
	}

	updated, err := h.comments.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete 删除评论：仅管理员
func (h *CommentHandler) Delete(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	comment, err := h.comments.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}

	claims := middleware.CurrentClaims(c)
	if err := services.Authorize(claims, comment.Author, services.ActionDeleteContent); err != nil {
		RespondError(c, err)
		return
	}

	if err := h.comments.Delete(id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
