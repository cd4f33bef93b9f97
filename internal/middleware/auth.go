package middleware

import (
	"net/http"
	"strings"

	"thicket/internal/models"
	"thicket/internal/services"

	"github.com/gin-gonic/gin"
)

const ClaimsKey = "claims"

// AuthTokenCookie 客户端持有令牌的 cookie 名，与 Authorization 头等效
const AuthTokenCookie = "auth_token"

// LoadClaims 从 Authorization 头或 cookie 取令牌并校验，
// 通过后将身份放入上下文。校验失败视为未登录，不中断请求。
func LoadClaims(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			if claims, err := tokens.Verify(token); err == nil {
				c.Set(ClaimsKey, claims)
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ClaimsKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// AdminRequired ensures the caller holds the admin role
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if claims.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin required"})
			return
		}
		c.Next()
	}
}

// CurrentClaims 取当前请求的已验证身份，未登录返回 nil
func CurrentClaims(c *gin.Context) *services.Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*services.Claims); ok {
			return claims
		}
	}
	return nil
}

// extractToken 依次尝试 Bearer 头和 cookie
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(AuthTokenCookie)
	if err != nil {
		return ""
	}
	return cookie
}
