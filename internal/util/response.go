package util

import (
	"edulearn_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// StatusFor 将业务错误映射为 HTTP 状态码
func StatusFor(err error) int {
	var verr *ValidationError
	var perr *PartialFailureError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &perr):
		return http.StatusInternalServerError
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidCredential),
		errors.Is(err, ErrSessionExpired),
		errors.Is(err, ErrCredentialExpired),
		errors.Is(err, ErrInvalidLogin):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrPendingApproval):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// HandleError 输出业务错误；未知错误记录日志后返回 500
func HandleError(c *gin.Context, err error) {
	var perr *PartialFailureError
	if errors.As(err, &perr) {
		logger.Log.Error("Partial failure",
			zap.String("operation", perr.Operation),
			zap.String("resource_id", perr.ResourceID),
			zap.Error(perr.Err),
		)
		c.JSON(http.StatusInternalServerError, Response{
			Code:    http.StatusInternalServerError,
			Message: perr.Operation + " partially completed; do not retry",
			Data: gin.H{
				"resource_id": perr.ResourceID,
				"retryable":   false,
			},
		})
		return
	}

	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		LogInternalError(c, err)
		return
	}
	Error(c, status, err.Error())
}
