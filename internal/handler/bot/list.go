package bot

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/pkg/ctxutil"
)

// ListMine 查询当前用户的机器人
// @Summary      我的机器人
// @Tags         机器人
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/bots [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		unauthorized(c)
		return
	}

	bots, err := h.botService.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "data": bots})
}

// ListPublic 查询公开机器人
// @Summary      公开机器人列表
// @Tags         机器人
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/bots/public [get]
func (h *Handler) ListPublic(c *gin.Context) {
	bots, err := h.botService.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "data": bots})
}

// ListSystem 查询系统内置机器人
// @Summary      系统机器人列表
// @Tags         机器人
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/bots/system [get]
func (h *Handler) ListSystem(c *gin.Context) {
	bots, err := h.botService.ListSystem(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "data": bots})
}

// ListByUser 查询指定用户的机器人（个人主页）
// @Summary      用户的机器人列表
// @Tags         机器人
// @Produce      json
// @Param        id   path      string  true  "用户ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/users/{id}/bots [get]
func (h *Handler) ListByUser(c *gin.Context) {
	bots, err := h.botService.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "data": bots})
}
