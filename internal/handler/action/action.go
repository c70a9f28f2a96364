package action

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/pkg/ctxutil"
	"pomelo/internal/service"
)

// Like 点赞
// @Summary      点赞
// @Tags         社区
// @Produce      json
// @Param        kind  path      string  true  "实体类型：chatbot/image/user/comment"
// @Param        id    path      string  true  "实体ID"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  ErrorResponse
// @Router       /api/v1/actions/{kind}/{id}/like [post]
func (h *Handler) Like(c *gin.Context) {
	kind := service.EntityKind(c.Param("kind"))
	if err := h.actionService.Like(c.Request.Context(), kind, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "点赞成功"})
}

// Report 举报
// @Summary      举报
// @Tags         社区
// @Produce      json
// @Param        kind  path      string  true  "实体类型：chatbot/image/user/comment"
// @Param        id    path      string  true  "实体ID"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  ErrorResponse
// @Router       /api/v1/actions/{kind}/{id}/report [post]
func (h *Handler) Report(c *gin.Context) {
	kind := service.EntityKind(c.Param("kind"))
	if err := h.actionService.Report(c.Request.Context(), kind, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "举报成功"})
}

// Publish 翻转公开状态（仅所有者）
// @Summary      发布/取消发布
// @Tags         社区
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "实体类型：chatbot/image"
// @Param        id    path      string  true  "实体ID"
// @Success      200   {object}  map[string]interface{}
// @Failure      403   {object}  ErrorResponse
// @Router       /api/v1/actions/{kind}/{id}/publish [post]
func (h *Handler) Publish(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: 40101, Message: "未授权"})
		return
	}

	kind := service.EntityKind(c.Param("kind"))
	public, err := h.actionService.Publish(c.Request.Context(), kind, c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{"public": public},
	})
}

// Delete 删除实体（仅所有者）
// @Summary      删除
// @Description  删除机器人时级联清掉版本日志和对话历史
// @Tags         社区
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "实体类型：chatbot/image"
// @Param        id    path      string  true  "实体ID"
// @Success      200   {object}  map[string]interface{}
// @Failure      403   {object}  ErrorResponse
// @Router       /api/v1/actions/{kind}/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: 40101, Message: "未授权"})
		return
	}

	kind := service.EntityKind(c.Param("kind"))
	if err := h.actionService.Delete(c.Request.Context(), kind, c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "删除成功"})
}
