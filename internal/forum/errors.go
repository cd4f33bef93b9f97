package forum

import (
	"errors"
	"fmt"
)

// 核心错误分类。服务层只返回这些哨兵错误（或其包装），由 handler 统一映射为 HTTP 状态码。
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrAuthFailure      = errors.New("invalid username or password") // uniform for unknown user and wrong password
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
	ErrStore            = errors.New("store error")
)

// StoreErr wraps a database failure. Transient store failures are never retried
// by the core; they surface to the orchestration layer as-is.
func StoreErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStore, err)
}

// ValidationErr wraps ErrValidation with a field-level reason.
func ValidationErr(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}
