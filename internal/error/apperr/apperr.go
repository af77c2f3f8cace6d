package apperr

import (
	"errors"
	"fmt"
)

// 服务层错误分类。控制器通过 errors.Is 将其映射为错误码和HTTP状态。
var (
	// ErrValidation 请求内容缺失或不合法，调用方修正后可重试
	ErrValidation = errors.New("请求参数无效")
	// ErrAccessDenied 越权访问，不可重试
	ErrAccessDenied = errors.New("没有权限执行该操作")
	// ErrNotFound 记录不存在，或不在调用方可见范围内
	ErrNotFound = errors.New("记录不存在")
	// ErrInvalidState 当前生命周期状态不允许该操作
	ErrInvalidState = errors.New("当前状态不允许该操作")
	// ErrConflict 并发写冲突。当前未启用乐观锁，预留给后续版本
	ErrConflict = errors.New("并发更新冲突")
)

// Validation 构造带说明的参数错误
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Validationf 构造带格式化说明的参数错误
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// AccessDenied 构造带说明的越权错误
func AccessDenied(msg string) error {
	return fmt.Errorf("%w: %s", ErrAccessDenied, msg)
}

// NotFound 构造带实体名的不存在错误
func NotFound(entity string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, entity)
}

// InvalidState 构造带说明的状态错误
func InvalidState(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, msg)
}

// InvalidStatef 构造带格式化说明的状态错误
func InvalidStatef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
