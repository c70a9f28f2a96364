package bot

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	botRepo "pomelo/internal/repository/bot"
	"pomelo/internal/service"
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError 按错误类型转换为 HTTP 状态码和业务错误码
// 配额超限和补全失败分开返回，前端据此提示注册或重试
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := 50001

	switch {
	case errors.Is(err, service.ErrChatbotNotFound):
		status, code = http.StatusNotFound, 40402
	case errors.Is(err, service.ErrVersionNotFound):
		status, code = http.StatusNotFound, 40403
	case errors.Is(err, service.ErrForbidden):
		status, code = http.StatusForbidden, 40301
	case errors.Is(err, service.ErrMissingAPIKey):
		status, code = http.StatusBadRequest, 40004
	case errors.Is(err, service.ErrQuotaExceeded):
		status, code = http.StatusTooManyRequests, 42901
	case errors.Is(err, service.ErrCompletionFailed):
		status, code = http.StatusBadGateway, 50201
	case errors.Is(err, botRepo.ErrVersionConflict):
		status, code = http.StatusConflict, 40901
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

// unauthorized 统一的未授权响应
func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Code:    40101,
		Message: "未授权",
	})
}

// badRequest 统一的请求体错误响应
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    40001,
		Message: "Invalid request body",
		Detail:  err.Error(),
	})
}
