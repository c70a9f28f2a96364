package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"pomelo/internal/model/bot"
	"pomelo/internal/pkg/avatar"
	"pomelo/internal/pkg/id"
	botRepo "pomelo/internal/repository/bot"
)

var (
	ErrChatbotNotFound = errors.New("机器人不存在")
	ErrVersionNotFound = errors.New("版本不存在")
)

// VersionService 提示词版本服务
// 版本日志只追加：每次编辑都产生新版本，旧版本永不修改或删除，
// 机器人的当前版本指针在日志内移动
type VersionService struct {
	chatbotRepo botRepo.ChatbotRepository
	versionRepo botRepo.VersionRepository
}

// NewVersionService 创建版本服务
func NewVersionService(chatbotRepo botRepo.ChatbotRepository, versionRepo botRepo.VersionRepository) *VersionService {
	return &VersionService{
		chatbotRepo: chatbotRepo,
		versionRepo: versionRepo,
	}
}

// Append 追加新版本并把当前版本指针移到它上面
// 头像跟随版本名称重新生成，保证改名后头像一致；category 为空时保持原值
func (s *VersionService) Append(ctx context.Context, chatbotID, name, prompt, editor, category string) (*bot.Version, error) {
	if _, err := s.chatbotRepo.FindByID(ctx, chatbotID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatbotNotFound
		}
		return nil, err
	}

	v := &bot.Version{
		ID:         id.New(), // 生成UUID
		ChatbotID:  chatbotID,
		Name:       name,
		Prompt:     prompt,
		ModifiedBy: editor,
	}
	if err := s.versionRepo.Append(ctx, v); err != nil {
		log.Error().Err(err).Str("chatbot_id", chatbotID).Msg("failed to append version")
		return nil, err
	}

	if err := s.chatbotRepo.SetCurrentVersion(ctx, chatbotID, v, avatar.ForBot(name), category); err != nil {
		log.Error().Err(err).Str("chatbot_id", chatbotID).Msg("failed to move current version pointer")
		return nil, err
	}

	return v, nil
}

// Revert 把当前版本指针移回历史版本
// 不产生新版本，版本日志保持不变；目标已是当前版本时为幂等空操作
func (s *VersionService) Revert(ctx context.Context, chatbotID, versionID, callerID string) (*bot.Version, error) {
	chatbot, err := s.chatbotRepo.FindByID(ctx, chatbotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatbotNotFound
		}
		return nil, err
	}
	// 非所有者不暴露机器人是否存在
	if chatbot.UserID != callerID {
		return nil, ErrChatbotNotFound
	}

	// 归属过滤：目标版本必须属于本机器人
	v, err := s.versionRepo.FindByID(ctx, chatbotID, versionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}

	if chatbot.CurrentVersionID == v.ID {
		return v, nil
	}

	if err := s.chatbotRepo.SetCurrentVersion(ctx, chatbotID, v, avatar.ForBot(v.Name), ""); err != nil {
		log.Error().Err(err).Str("chatbot_id", chatbotID).Str("version_id", versionID).Msg("failed to revert version")
		return nil, err
	}

	log.Info().Str("chatbot_id", chatbotID).Int("version_number", v.VersionNumber).Msg("chatbot reverted to historical version")
	return v, nil
}

// List 查询机器人的全部版本（最新在前）
func (s *VersionService) List(ctx context.Context, chatbotID string) ([]*bot.Version, error) {
	return s.versionRepo.ListByChatbot(ctx, chatbotID)
}
