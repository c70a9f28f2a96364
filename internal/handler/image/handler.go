package image

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/pkg/ctxutil"
	"pomelo/internal/service"
)

// Handler 图片处理器
type Handler struct {
	imageService *service.ImageService
}

// NewHandler 创建图片处理器
func NewHandler(imageService *service.ImageService) *Handler {
	return &Handler{
		imageService: imageService,
	}
}

// CreateRequest 保存图片提示词请求
type CreateRequest struct {
	Prompt string `json:"prompt" binding:"required"` // 生成提示词
}

// Create 保存图片提示词
// @Summary      保存图片提示词
// @Tags         图片
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateRequest  true  "提示词"
// @Success      201      {object}  map[string]interface{}
// @Router       /api/v1/images [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 40101, "message": "未授权"})
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    40001,
			"message": "Invalid request body",
			"detail":  err.Error(),
		})
		return
	}

	img, err := h.imageService.Create(c.Request.Context(), userID, req.Prompt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"code": 0, "data": img})
}

// ListMine 查询当前用户的图片
// @Summary      我的图片
// @Tags         图片
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/images [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 40101, "message": "未授权"})
		return
	}

	images, err := h.imageService.ListMine(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "data": images})
}

// ListPublic 查询公开图片
// @Summary      公开图片列表
// @Tags         图片
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/images/public [get]
func (h *Handler) ListPublic(c *gin.Context) {
	images, err := h.imageService.ListPublic(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "data": images})
}
