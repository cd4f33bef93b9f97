package services

import (
	"testing"

	"thicket/internal/forum"
	"thicket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreatePostRendersContent(t *testing.T) {
	svc := NewPostService(newTestDB(t), nil)

	post, err := svc.Create("Hello", "**bold** <script>alert(1)</script>", "alice", strPtr("tech"))
	require.NoError(t, err)

	assert.Equal(t, "alice", post.Author)
	assert.Equal(t, "**bold** <script>alert(1)</script>", post.RawContent)
	assert.Contains(t, post.Content, "<strong>bold</strong>")
	assert.NotContains(t, post.Content, "<script>")
	assert.Equal(t, 0, post.CommentCount)
	require.NotNil(t, post.Tag)
	assert.Equal(t, "tech", *post.Tag)
}

func TestCreatePostValidation(t *testing.T) {
	svc := NewPostService(newTestDB(t), nil)

	_, err := svc.Create("", "content", "alice", nil)
	assert.ErrorIs(t, err, forum.ErrValidation)
}

func TestListPostsFilters(t *testing.T) {
	svc := NewPostService(newTestDB(t), nil)

	_, err := svc.Create("p1", "a", "alice", strPtr("tech"))
	require.NoError(t, err)
	_, err = svc.Create("p2", "b", "bob", strPtr("life"))
	require.NoError(t, err)
	_, err = svc.Create("p3", "c", "alice", nil)
	require.NoError(t, err)

	all, err := svc.List(PostFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// 最新在前
	assert.Equal(t, "p3", all[0].Title)
	assert.Equal(t, "p1", all[2].Title)

	byTag, err := svc.List(PostFilter{Tag: "tech"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "p1", byTag[0].Title)

	byAuthor, err := svc.List(PostFilter{Author: "alice"})
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)

	// 两个维度同时给出时只按 tag 过滤
	both, err := svc.List(PostFilter{Tag: "life", Author: "alice"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "p2", both[0].Title)
}

func TestUpdatePostPartial(t *testing.T) {
	svc := NewPostService(newTestDB(t), nil)

	post, err := svc.Create("Old title", "old *content*", "alice", strPtr("tech"))
	require.NoError(t, err)

	require.NoError(t, svc.Update(post.ID, PostUpdate{Title: strPtr("New title")}))

	got, err := svc.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "old *content*", got.RawContent, "content untouched by title-only update")

	require.NoError(t, svc.Update(post.ID, PostUpdate{Content: strPtr("new `code`")}))
	got, err = svc.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "new `code`", got.RawContent)
	assert.Contains(t, got.Content, "<code>code</code>")

	// 清除标签
	require.NoError(t, svc.Update(post.ID, PostUpdate{Tag: strPtr("")}))
	got, err = svc.GetByID(post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Tag)

	assert.ErrorIs(t, svc.Update(999, PostUpdate{Title: strPtr("x")}), forum.ErrNotFound)
	assert.ErrorIs(t, svc.Update(post.ID, PostUpdate{Title: strPtr("")}), forum.ErrValidation)
}

func TestDeletePostCascades(t *testing.T) {
	conn := newTestDB(t)
	users := NewUserService(conn, testBcryptCost)
	posts := NewPostService(conn, nil)
	comments := NewCommentService(conn, users)

	doomed, err := posts.Create("doomed", "x", "alice", nil)
	require.NoError(t, err)
	survivor, err := posts.Create("survivor", "y", "bob", nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := comments.Create(doomed.ID, "bye", "alice")
		require.NoError(t, err)
	}
	_, err = comments.Create(survivor.ID, "still here", "bob")
	require.NoError(t, err)

	require.NoError(t, posts.Delete(doomed.ID))

	_, err = posts.GetByID(doomed.ID)
	assert.ErrorIs(t, err, forum.ErrNotFound)

	var orphaned int64
	require.NoError(t, conn.Model(&models.Comment{}).Where("post_id = ?", doomed.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned, "comments cannot outlive their post")

	// 其他帖子的评论不受影响
	n, err := comments.CountByPost(survivor.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.ErrorIs(t, posts.Delete(doomed.ID), forum.ErrNotFound)
}

func TestCommentCountRecoveryPrimitives(t *testing.T) {
	conn := newTestDB(t)
	svc := NewPostService(conn, nil)

	post, err := svc.Create("p", "x", "alice", nil)
	require.NoError(t, err)

	require.NoError(t, svc.IncrementCommentCount(post.ID))
	require.NoError(t, svc.IncrementCommentCount(post.ID))

	got, err := svc.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CommentCount)

	require.NoError(t, svc.DecrementCommentCount(post.ID))
	require.NoError(t, svc.DecrementCommentCount(post.ID))
	// 已到 0，继续递减不会出现负数
	require.NoError(t, svc.DecrementCommentCount(post.ID))

	got, err = svc.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CommentCount)
}
