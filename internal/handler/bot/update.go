package bot

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/pkg/ctxutil"
)

// UpdateRequest 编辑机器人请求
type UpdateRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Prompt   string `json:"prompt" binding:"required"`
	Category string `json:"category,omitempty"` // 为空时保持原分类
}

// Update 编辑机器人
// @Summary      编辑机器人
// @Description  每次编辑都追加一个新版本并把当前指针移过去，历史版本保留
// @Tags         机器人
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "机器人ID"
// @Param        request  body      UpdateRequest  true  "新内容"
// @Success      200      {object}  map[string]interface{}
// @Failure      403      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /api/v1/bots/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	version, err := h.botService.Update(c.Request.Context(), c.Param("id"), userID, c.GetString("username"), req.Name, req.Prompt, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": version,
	})
}
