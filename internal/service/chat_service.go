package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"pomelo/internal/ai"
	"pomelo/internal/model/bot"
	"pomelo/internal/pkg/chatctx"
	"pomelo/internal/pkg/id"
	botRepo "pomelo/internal/repository/bot"
)

var (
	ErrForbidden        = errors.New("没有权限访问该机器人")
	ErrMissingAPIKey    = errors.New("缺少 API key")
	ErrCompletionFailed = errors.New("补全服务未返回回复")
)

// 匿名会话没有机器人，使用固定的系统提示词
const anonymousPrompt = "You are a helpful assistant."

// ChatService 对话服务
// 编排一次完整的对话交换：解析机器人、鉴权、装配上下文、
// 调用补全服务、持久化轮次。补全失败时不落任何数据
type ChatService struct {
	chatbotRepo botRepo.ChatbotRepository
	turnRepo    botRepo.TurnRepository
	completer   ai.Completer
	quota       *QuotaGuard
}

// NewChatService 创建对话服务
func NewChatService(
	chatbotRepo botRepo.ChatbotRepository,
	turnRepo botRepo.TurnRepository,
	completer ai.Completer,
	quota *QuotaGuard,
) *ChatService {
	return &ChatService{
		chatbotRepo: chatbotRepo,
		turnRepo:    turnRepo,
		completer:   completer,
		quota:       quota,
	}
}

// resolve 查询机器人并检查访问权限
// 所有者、公开机器人、系统内置机器人三者满足其一即放行
func (s *ChatService) resolve(ctx context.Context, chatbotID, userID string) (*bot.Chatbot, error) {
	chatbot, err := s.chatbotRepo.FindByID(ctx, chatbotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatbotNotFound
		}
		return nil, err
	}
	if chatbot.UserID != userID && !chatbot.Public && chatbot.Author != bot.AuthorSystem {
		return nil, ErrForbidden
	}
	return chatbot, nil
}

// Chat 登录用户与机器人对话
// 上下文总是用机器人的当前版本提示词和该用户的全部历史装配，
// 只有拿到非空回复才持久化本轮
func (s *ChatService) Chat(ctx context.Context, chatbotID, userID, query, apiKey, engine string) (*bot.Turn, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	chatbot, err := s.resolve(ctx, chatbotID, userID)
	if err != nil {
		return nil, err
	}

	turns, err := s.turnRepo.ListByChatbotAndUser(ctx, chatbotID, userID)
	if err != nil {
		return nil, err
	}

	history := make([]chatctx.Exchange, 0, len(turns))
	for _, t := range turns {
		history = append(history, chatctx.Exchange{Query: t.Query, Response: t.Response})
	}

	messages := chatctx.Assemble(chatbot.Prompt, history, query)
	response, err := s.completer.Complete(ctx, messages, apiKey, engine)
	if err != nil {
		log.Warn().Err(err).Str("chatbot_id", chatbotID).Msg("completion failed, turn not persisted")
		return nil, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	turn := &bot.Turn{
		ID:        id.New(), // 生成UUID
		ChatbotID: chatbotID,
		UserID:    userID,
		Query:     query,
		Response:  response,
	}
	if err := s.turnRepo.Create(ctx, turn); err != nil {
		log.Error().Err(err).Str("chatbot_id", chatbotID).Msg("failed to persist chat turn")
		return nil, err
	}

	return turn, nil
}

// AnonymousChat 匿名试用对话
// 历史由客户端随请求携带，服务端不落库；先记账再调补全，
// 超出额度的请求在任何外部调用之前被拒绝
func (s *ChatService) AnonymousChat(ctx context.Context, sessionID string, history []chatctx.Exchange, query, apiKey, engine string) (string, []chatctx.Exchange, error) {
	if _, err := s.quota.Admit(ctx, sessionID); err != nil {
		return "", nil, err
	}

	if apiKey == "" {
		return "", nil, ErrMissingAPIKey
	}

	messages := chatctx.Assemble(anonymousPrompt, history, query)
	response, err := s.completer.Complete(ctx, messages, apiKey, engine)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("anonymous completion failed")
		return "", nil, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	updated := append(history, chatctx.Exchange{Query: query, Response: response})
	return response, updated, nil
}

// History 查询机器人信息和当前用户的对话历史（会话打开时的首屏数据）
func (s *ChatService) History(ctx context.Context, chatbotID, userID string) (*bot.Chatbot, []*bot.Turn, error) {
	chatbot, err := s.resolve(ctx, chatbotID, userID)
	if err != nil {
		return nil, nil, err
	}
	turns, err := s.turnRepo.ListByChatbotAndUser(ctx, chatbotID, userID)
	if err != nil {
		return nil, nil, err
	}
	return chatbot, turns, nil
}

// ClearHistory 清空当前用户与某机器人的对话历史，返回删除条数
// 幂等：没有历史时删除 0 条并正常返回
func (s *ChatService) ClearHistory(ctx context.Context, chatbotID, userID string) (int64, error) {
	deleted, err := s.turnRepo.DeleteByChatbotAndUser(ctx, chatbotID, userID)
	if err != nil {
		log.Error().Err(err).Str("chatbot_id", chatbotID).Msg("failed to clear chat history")
		return 0, err
	}
	return deleted, nil
}
