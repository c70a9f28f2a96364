package bot

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/pkg/ctxutil"
)

// CommentRequest 评论请求
type CommentRequest struct {
	Name    string `json:"name" binding:"required,max=50"` // 评论者显示名称
	Message string `json:"message" binding:"required"`     // 评论内容
}

// AddComment 添加评论
// @Summary      添加评论
// @Description  匿名也可评论，登录用户评论会得到贡献分
// @Tags         机器人
// @Accept       json
// @Produce      json
// @Param        id       path      string          true  "机器人ID"
// @Param        request  body      CommentRequest  true  "评论"
// @Success      201      {object}  map[string]interface{}
// @Failure      404      {object}  ErrorResponse
// @Router       /api/v1/bots/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// 登录用户带上ID用于贡献分，匿名为空
	commenterID, _ := ctxutil.GetUserID(c.Request.Context())

	comment, err := h.botService.AddComment(c.Request.Context(), c.Param("id"), req.Name, req.Message, commenterID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code": 0,
		"data": comment,
	})
}
