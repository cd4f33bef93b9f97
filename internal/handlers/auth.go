package handlers

import (
	"net/http"
	"time"

	"thicket/internal/middleware"
	"thicket/internal/services"

	"github.com/gin-gonic/gin"
)

// 会话 cookie 有效期与令牌一致（秒）
const authCookieMaxAge = int(services.TokenTTL / time.Second)

type AuthHandler struct {
	users  *services.UserService
	tokens *services.TokenService
}

func NewAuthHandler(users *services.UserService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// 角色由服务固定为 user，注册请求不携带角色字段
	id, err := h.users.Register(req.Username, req.Password, req.Email, req.Bio)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "username": req.Username})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		RespondError(c, err)
		return
	}

	// 令牌同时放入 cookie 和响应体，客户端任选一种携带方式
	c.SetCookie(middleware.AuthTokenCookie, token, authCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout 仅清除客户端 cookie。令牌本身到期前保持有效，服务端不吊销。
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.AuthTokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me 返回当前令牌身份对应的用户
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := h.users.GetByID(claims.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
