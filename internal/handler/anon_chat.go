package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/pkg/chatctx"
	"pomelo/internal/pkg/ctxutil"
	"pomelo/internal/service"
)

// AnonChatHandler 匿名试用处理器
// 历史由客户端随请求携带，服务端只做配额记账和上下文装配
type AnonChatHandler struct {
	chatService *service.ChatService
	quota       *service.QuotaGuard
}

// NewAnonChatHandler 创建匿名试用处理器
func NewAnonChatHandler(chatService *service.ChatService, quota *service.QuotaGuard) *AnonChatHandler {
	return &AnonChatHandler{
		chatService: chatService,
		quota:       quota,
	}
}

// AnonChatRequest 匿名对话请求
type AnonChatRequest struct {
	Query   string             `json:"query" binding:"required"` // 用户消息
	History []chatctx.Exchange `json:"history,omitempty"`        // 客户端持有的历史
}

// Chat 匿名对话
// @Summary      匿名试用对话
// @Description  无需注册，按会话 cookie 计数，超出免费额度返回 429
// @Tags         匿名
// @Accept       json
// @Produce      json
// @Param        X-Api-Key  header    string           true   "补全服务 API key"
// @Param        X-Engine   header    string           false  "引擎选择器"
// @Param        request    body      AnonChatRequest  true   "消息和历史"
// @Success      200        {object}  map[string]interface{}
// @Failure      429        {object}  map[string]interface{}
// @Failure      502        {object}  map[string]interface{}
// @Router       /api/v1/chat [post]
func (h *AnonChatHandler) Chat(c *gin.Context) {
	sessionID, ok := ctxutil.GetSessionID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    40005,
			"message": "缺少会话标识",
		})
		return
	}

	var req AnonChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    40001,
			"message": "Invalid request body",
			"detail":  err.Error(),
		})
		return
	}

	response, history, err := h.chatService.AnonymousChat(
		c.Request.Context(),
		sessionID,
		req.History,
		req.Query,
		c.GetHeader("X-Api-Key"),
		c.GetHeader("X-Engine"),
	)
	if err != nil {
		status := http.StatusInternalServerError
		code := 50001
		switch {
		case errors.Is(err, service.ErrQuotaExceeded):
			status, code = http.StatusTooManyRequests, 42901
		case errors.Is(err, service.ErrMissingAPIKey):
			status, code = http.StatusBadRequest, 40004
		case errors.Is(err, service.ErrCompletionFailed):
			status, code = http.StatusBadGateway, 50201
		}
		c.JSON(status, gin.H{
			"code":    code,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"response": response,
			"history":  history,
		},
	})
}

// Quota 查询匿名会话剩余额度
// @Summary      查询剩余免费额度
// @Tags         匿名
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/quota [get]
func (h *AnonChatHandler) Quota(c *gin.Context) {
	sessionID, ok := ctxutil.GetSessionID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    40005,
			"message": "缺少会话标识",
		})
		return
	}

	remaining, err := h.quota.Remaining(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    50001,
			"message": "查询额度失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"limit":     h.quota.Limit(),
			"remaining": remaining,
		},
	})
}
