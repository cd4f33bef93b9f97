package services

import (
	"fmt"
	"time"

	"thicket/internal/forum"
	"thicket/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL 令牌有效期，签发后 7 天过期
const TokenTTL = 7 * 24 * time.Hour

// Claims 会话令牌携带的身份信息。每次请求从令牌重建，不落库。
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService 签发和校验紧凑的防篡改会话令牌（HS256）。
//
// Verify 只做签名和过期校验，不查用户表：签发后被删除或降权的用户在令牌
// 过期前仍按签发时的身份通过校验。这是有意的信任边界，如需撤销必须另加
// 服务端吊销检查。
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: TokenTTL}
}

// Issue 为用户签发令牌，携带 {id, username, role}，有效期 ttl
func (s *TokenService) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify 校验令牌签名和有效期，任何失败统一返回 ErrInvalidToken
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// 只接受 HMAC，防止算法替换
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, forum.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, forum.ErrInvalidToken
	}
	return claims, nil
}
