package services

import (
	"testing"

	"thicket/internal/forum"
	"thicket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// 测试用低 cost，避免拖慢用例
const testBcryptCost = bcrypt.MinCost

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewUserService(newTestDB(t), testBcryptCost)

	id, err := svc.Register("alice", "s3cret", "Alice@Example.com ", "hi there")
	require.NoError(t, err)
	assert.NotZero(t, id)

	user, err := svc.Authenticate("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleUser, user.Role, "role must default to user regardless of caller input")
	assert.NotEqual(t, "s3cret", user.Password, "plaintext must never be stored")
	assert.Equal(t, EmailHash("alice@example.com"), user.EmailHash)

	// 错误密码与不存在用户返回同一个错误，不泄露用户是否存在
	_, err = svc.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, forum.ErrAuthFailure)

	_, err = svc.Authenticate("nobody", "s3cret")
	assert.ErrorIs(t, err, forum.ErrAuthFailure)
}

func TestRegisterConflict(t *testing.T) {
	svc := NewUserService(newTestDB(t), testBcryptCost)

	_, err := svc.Register("bob", "pw", "bob@example.com", "")
	require.NoError(t, err)

	_, err = svc.Register("bob", "other", "bob2@example.com", "")
	assert.ErrorIs(t, err, forum.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(newTestDB(t), testBcryptCost)

	_, err := svc.Register("", "pw", "x@example.com", "")
	assert.ErrorIs(t, err, forum.ErrValidation)

	_, err = svc.Register("carol", "", "x@example.com", "")
	assert.ErrorIs(t, err, forum.ErrValidation)
}

func TestUpdatePartial(t *testing.T) {
	svc := NewUserService(newTestDB(t), testBcryptCost)

	id, err := svc.Register("dave", "oldpw", "dave@example.com", "old bio")
	require.NoError(t, err)

	before, err := svc.GetByID(id)
	require.NoError(t, err)

	// 只改 bio，其余字段不动
	bio := "new bio"
	require.NoError(t, svc.Update(id, UserUpdate{Bio: &bio}))

	after, err := svc.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "new bio", after.Bio)
	assert.Equal(t, before.Email, after.Email)
	assert.Equal(t, before.Password, after.Password)

	// 改邮箱要重算头像哈希
	email := "Dave@New.Example "
	require.NoError(t, svc.Update(id, UserUpdate{Email: &email}))
	after, err = svc.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, EmailHash("dave@new.example"), after.EmailHash)

	// 改密码要重新哈希且能通过校验
	pw := "newpw"
	require.NoError(t, svc.Update(id, UserUpdate{Password: &pw}))
	_, err = svc.Authenticate("dave", "newpw")
	assert.NoError(t, err)
	_, err = svc.Authenticate("dave", "oldpw")
	assert.ErrorIs(t, err, forum.ErrAuthFailure)
}

func TestUpdateMissingUser(t *testing.T) {
	svc := NewUserService(newTestDB(t), testBcryptCost)

	bio := "x"
	err := svc.Update(999, UserUpdate{Bio: &bio})
	assert.ErrorIs(t, err, forum.ErrNotFound)
}

func TestGetByUsernames(t *testing.T) {
	svc := NewUserService(newTestDB(t), testBcryptCost)

	_, err := svc.Register("u1", "pw", "u1@example.com", "")
	require.NoError(t, err)
	_, err = svc.Register("u2", "pw", "u2@example.com", "")
	require.NoError(t, err)

	m, err := svc.GetByUsernames([]string{"u1", "u2", "missing"})
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, EmailHash("u1@example.com"), m["u1"].EmailHash)

	empty, err := svc.GetByUsernames(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
