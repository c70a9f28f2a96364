package bot

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Detail 机器人详情页数据
// @Summary      机器人详情
// @Description  返回主记录、完整版本日志（最新在前）和评论
// @Tags         机器人
// @Produce      json
// @Param        id   path      string  true  "机器人ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/bots/{id}/data [get]
func (h *Handler) Detail(c *gin.Context) {
	chatbot, versions, comments, err := h.botService.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"chatbot":  chatbot,
			"versions": versions,
			"comments": comments,
		},
	})
}
