package services

import (
	"thicket/internal/forum"
	"thicket/internal/models"
)

// Action 权限表中的操作类别
type Action int

const (
	ActionView Action = iota
	ActionCreateContent
	ActionEditContent
	ActionDeleteContent
	ActionManageTags
)

// Allowed 是全部路由共用的唯一权限判定。纯函数，无 I/O。
//
//	查看内容        任何人（含未登录）
//	发帖/评论       已登录
//	编辑帖子/评论    管理员或作者本人（owner 为内容上记录的 author 用户名）
//	删除帖子/评论    仅管理员
//	标签增删改       仅管理员
func Allowed(caller *Claims, owner string, action Action) bool {
	if action == ActionView {
		return true
	}
	if caller == nil {
		return false
	}

	switch action {
	case ActionCreateContent:
		return true
	case ActionEditContent:
		return caller.Role == models.RoleAdmin || caller.Username == owner
	case ActionDeleteContent, ActionManageTags:
		return caller.Role == models.RoleAdmin
	}
	return false
}

// Authorize 与 Allowed 相同，拒绝时返回 ErrPermissionDenied，方便 handler 直接透传
func Authorize(caller *Claims, owner string, action Action) error {
	if !Allowed(caller, owner, action) {
		return forum.ErrPermissionDenied
	}
	return nil
}
