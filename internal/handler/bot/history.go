package bot

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/pkg/ctxutil"
)

// Get 查询机器人和当前用户的对话历史（会话页首屏）
// @Summary      查询机器人和对话历史
// @Tags         机器人
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "机器人ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/bots/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}

	chatbot, turns, err := h.chatService.History(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"chatbot": chatbot,
			"history": turns,
		},
	})
}

// ClearHistory 清空当前用户与机器人的对话历史
// @Summary      清空对话历史
// @Description  幂等操作，返回实际删除的条数
// @Tags         机器人
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "机器人ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/bots/{id}/history [delete]
func (h *Handler) ClearHistory(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}

	deleted, err := h.chatService.ClearHistory(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"deleted": deleted,
		},
	})
}
