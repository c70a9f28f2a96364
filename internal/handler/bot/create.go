package bot

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/pkg/ctxutil"
)

// CreateRequest 创建机器人请求
type CreateRequest struct {
	Name     string `json:"name" binding:"required,max=100"` // 显示名称
	Prompt   string `json:"prompt" binding:"required"`       // 系统提示词
	Category string `json:"category,omitempty"`              // 分类（可选）
}

// Create 创建机器人
// @Summary      创建机器人
// @Description  创建机器人并生成版本1，新机器人默认私有
// @Tags         机器人
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateRequest  true  "机器人"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Router       /api/v1/bots [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	chatbot, err := h.botService.Create(c.Request.Context(), userID, c.GetString("username"), req.Name, req.Prompt, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code": 0,
		"data": chatbot,
	})
}
