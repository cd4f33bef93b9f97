package handlers

import (
	"errors"
	"net/http"

	"thicket/internal/forum"
	"thicket/internal/utils"

	"github.com/gin-gonic/gin"
)

// RespondError 将核心错误分类映射为 HTTP 状态码，handler 不再各自判错
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, forum.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, forum.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, forum.ErrAuthFailure), errors.Is(err, forum.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, forum.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, forum.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pageParams 解析分页查询参数，page 从 1 开始，page_size 上限 100
func pageParams(c *gin.Context, defaultSize int) (page, pageSize int) {
	page = utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}
	pageSize = utils.StringToInt(c.Query("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultSize
	}
	return page, pageSize
}
