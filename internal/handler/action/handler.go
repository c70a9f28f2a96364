package action

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/service"
)

// Handler 社区操作处理器
// 点赞/举报/发布/删除按 URL 中的实体类型分发
type Handler struct {
	actionService *service.ActionService
}

// NewHandler 创建社区操作处理器
func NewHandler(actionService *service.ActionService) *Handler {
	return &Handler{
		actionService: actionService,
	}
}

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError 按错误类型转换为 HTTP 状态码和业务错误码
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := 50001

	switch {
	case errors.Is(err, service.ErrEntityNotFound):
		status, code = http.StatusNotFound, 40404
	case errors.Is(err, service.ErrUnknownEntity):
		status, code = http.StatusBadRequest, 40006
	case errors.Is(err, service.ErrActionNotAllowed):
		status, code = http.StatusBadRequest, 40007
	case errors.Is(err, service.ErrForbidden):
		status, code = http.StatusForbidden, 40301
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}
