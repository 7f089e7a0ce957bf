package util

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrInvalidCredential = errors.New("invalid token")
	ErrSessionExpired    = errors.New("session expired")
	ErrCredentialExpired = errors.New("token expired")
	ErrInvalidLogin      = errors.New("invalid credentials")

	ErrForbidden       = errors.New("access denied")
	ErrPendingApproval = errors.New("your account is pending approval")

	ErrNotFound               = errors.New("resource not found")
	ErrUserNotFound           = fmt.Errorf("user: %w", ErrNotFound)
	ErrPaperNotFound          = fmt.Errorf("paper: %w", ErrNotFound)
	ErrGeneratedPaperNotFound = fmt.Errorf("generated paper: %w", ErrNotFound)
	ErrResultNotFound         = fmt.Errorf("result: %w", ErrNotFound)
	ErrDoubtNotFound          = fmt.Errorf("doubt: %w", ErrNotFound)
	ErrNotificationNotFound   = fmt.Errorf("notification: %w", ErrNotFound)

	ErrConflict         = errors.New("conflict")
	ErrEmailRegistered  = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrAlreadyPublished = fmt.Errorf("generated paper already published: %w", ErrConflict)
)

// ValidationError 请求缺少必填字段或字段格式不正确
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// PartialFailureError 多步写入中主要操作已经生效、后续写入失败。
// 调用方不能直接重试，否则会重复创建资源。
type PartialFailureError struct {
	Operation  string
	ResourceID string
	Err        error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s partially completed (resource %s): %v", e.Operation, e.ResourceID, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
