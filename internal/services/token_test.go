package services

import (
	"testing"
	"time"

	"thicket/internal/forum"
	"thicket/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890"

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Username: "alice",
		Role:     models.RoleAdmin,
	}
}

func TestIssueVerifyRoundtrip(t *testing.T) {
	svc := NewTokenService(testSecret)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewTokenService(testSecret)
	// 过期时间压到过去，签名本身有效
	svc.ttl = -time.Hour

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, forum.ErrInvalidToken)
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := NewTokenService(testSecret)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	// 换一个密钥重签同样的声明，模拟伪造
	other := NewTokenService("another-secret-entirely-different00")
	forged, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Verify(forged)
	assert.ErrorIs(t, err, forum.ErrInvalidToken)

	// 载荷被篡改
	_, err = svc.Verify(token + "x")
	assert.ErrorIs(t, err, forum.ErrInvalidToken)

	_, err = svc.Verify("not.a.token")
	assert.ErrorIs(t, err, forum.ErrInvalidToken)
}

func TestVerifyRejectsWrongAlgorithm(t *testing.T) {
	svc := NewTokenService(testSecret)

	// alg=none 的令牌必须被拒绝
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:   42,
		Username: "alice",
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(tokenString)
	assert.ErrorIs(t, err, forum.ErrInvalidToken)
}

// 令牌签发后不再回查用户表：用户之后被降权，旧令牌在到期前
// 仍按签发时的角色通过校验。这是约定的信任边界，改动前先想清楚。
func TestVerifyIgnoresLaterRoleChange(t *testing.T) {
	svc := NewTokenService(testSecret)

	user := testUser()
	token, err := svc.Issue(user)
	require.NoError(t, err)

	// 降权发生在签发之后
	user.Role = models.RoleUser

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}
