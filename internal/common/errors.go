package common

import (
	"errors"
	"fmt"
)

// AppError 应用级错误结构
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code, message string, err error) error {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewError 创建新错误
func NewError(code, message string) error {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// CodeOf 取出错误码，非 AppError 一律归为 INTERNAL_ERROR
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsCode 判断错误链上是否带指定错误码
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// 错误码常量
const (
	// ErrCodeUpstreamUnavailable 上游网络/HTTP 失败，调用方降级为空结果
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	// ErrCodeRateLimited 上游配额耗尽，同样降级为空结果
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodeParseMismatch 清单行不符合预期格式，跳过该条即可
	ErrCodeParseMismatch = "PARSE_MISMATCH"
	// ErrCodeInvalidInput 调用方参数非法，唯一会直接返回给调用方的错误
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)
