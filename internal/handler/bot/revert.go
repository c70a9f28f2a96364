package bot

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/pkg/ctxutil"
)

// RevertRequest 回退版本请求
type RevertRequest struct {
	VersionID string `json:"version_id" binding:"required"` // 目标版本ID
}

// Revert 回退到历史版本
// @Summary      回退到历史版本
// @Description  把当前版本指针移回历史版本，不产生新版本；目标已是当前版本时幂等返回
// @Tags         机器人
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "机器人ID"
// @Param        request  body      RevertRequest  true  "目标版本"
// @Success      200      {object}  map[string]interface{}
// @Failure      404      {object}  ErrorResponse
// @Router       /api/v1/bots/{id}/revert [post]
func (h *Handler) Revert(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}

	var req RevertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	version, err := h.versions.Revert(c.Request.Context(), c.Param("id"), req.VersionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": version,
	})
}
