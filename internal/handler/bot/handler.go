package bot

import (
	"pomelo/internal/service"
)

// Handler 机器人处理器
type Handler struct {
	botService  *service.BotService
	chatService *service.ChatService
	versions    *service.VersionService
}

// NewHandler 创建机器人处理器
func NewHandler(botService *service.BotService, chatService *service.ChatService, versions *service.VersionService) *Handler {
	return &Handler{
		botService:  botService,
		chatService: chatService,
		versions:    versions,
	}
}
