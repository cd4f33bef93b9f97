package handlers

import (
	"net/http"

	"thicket/internal/middleware"
	"thicket/internal/services"
	"thicket/internal/utils"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tags *services.TagService
}

func NewTagHandler(tags *services.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// List 全部标签及实时帖子数，零帖标签也在内
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tags.AllWithCounts()
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

type tagRequest struct {
	Name string `json:"name"`
}

func (h *TagHandler) Create(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if err := services.Authorize(claims, "", services.ActionManageTags); err != nil {
		RespondError(c, err)
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tag, err := h.tags.Create(req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) Update(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if err := services.Authorize(claims, "", services.ActionManageTags); err != nil {
		RespondError(c, err)
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id := utils.StringToUint(c.Param("id"))
	if err := h.tags.Update(id, req.Name); err != nil {
		RespondError(c, err)
		return
	}

	tag, err := h.tags.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) Delete(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if err := services.Authorize(claims, "", services.ActionManageTags); err != nil {
		RespondError(c, err)
		return
	}

	id := utils.StringToUint(c.Param("id"))
	if err := h.tags.Delete(id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
