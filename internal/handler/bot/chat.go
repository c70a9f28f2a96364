package bot

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/pkg/ctxutil"
)

// ChatRequest 对话请求
// API key 和 engine 走 header，只透传给补全服务，不落库
type ChatRequest struct {
	Query string `json:"query" binding:"required"` // 用户消息
}

// Chat 与机器人对话
// @Summary      与机器人对话
// @Description  用机器人当前版本提示词和本用户的全部历史装配上下文，调用补全服务并持久化本轮
// @Tags         机器人
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string       true   "机器人ID"
// @Param        X-Api-Key  header    string       true   "补全服务 API key"
// @Param        X-Engine   header    string       false  "引擎选择器，形如 provider/model"
// @Param        request    body      ChatRequest  true   "消息"
// @Success      200        {object}  map[string]interface{}
// @Failure      403        {object}  ErrorResponse
// @Failure      502        {object}  ErrorResponse
// @Router       /api/v1/bots/{id}/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	turn, err := h.chatService.Chat(
		c.Request.Context(),
		c.Param("id"),
		userID,
		req.Query,
		c.GetHeader("X-Api-Key"),
		c.GetHeader("X-Engine"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": turn,
	})
}
