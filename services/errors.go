package services

import (
	"errors"
	"fmt"
)

// ValidationError 输入缺失或格式错误
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthenticationError 未认证或凭据无效
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// PermissionError 角色或归属不符
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string { return e.Message }

// NotFoundError 资源不存在
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("%s不存在", e.Resource)
	}
	return fmt.Sprintf("%s %v 不存在", e.Resource, e.ID)
}

// ConflictError 状态冲突或唯一字段重复
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// InsufficientDataError 时间窗口内没有记录，无法生成报告
type InsufficientDataError struct {
	Period string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("所选时间段(%s)内没有任何记录，无法生成报告", e.Period)
}

// UnavailableError 依赖的外部能力未配置
type UnavailableError struct {
	Message string
}

func (e *UnavailableError) Error() string { return e.Message }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFound(resource string, id interface{}) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound 判断是否为资源不存在错误
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
