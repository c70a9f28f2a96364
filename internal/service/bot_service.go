package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"pomelo/internal/model/bot"
	"pomelo/internal/pkg/id"
	authRepo "pomelo/internal/repository/auth"
	botRepo "pomelo/internal/repository/bot"
)

// 贡献分规则
const (
	scoreCreateBot   = 5
	scoreCreateImage = 5
	scoreComment     = 3
	scorePublish     = 2
)

// BotService 机器人服务
type BotService struct {
	chatbotRepo botRepo.ChatbotRepository
	commentRepo botRepo.CommentRepository
	userRepo    authRepo.UserRepository
	versions    *VersionService
}

// NewBotService 创建机器人服务
func NewBotService(
	chatbotRepo botRepo.ChatbotRepository,
	commentRepo botRepo.CommentRepository,
	userRepo authRepo.UserRepository,
	versions *VersionService,
) *BotService {
	return &BotService{
		chatbotRepo: chatbotRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		versions:    versions,
	}
}

// Create 创建机器人
// 主记录先落库，随后追加版本1并把指针指向它；新机器人默认私有
func (s *BotService) Create(ctx context.Context, userID, username, name, prompt, category string) (*bot.Chatbot, error) {
	chatbot := &bot.Chatbot{
		ID:       id.New(), // 生成UUID
		UserID:   userID,
		Category: category,
		Public:   false,
		Author:   bot.AuthorUser,
	}
	if err := s.chatbotRepo.Create(ctx, chatbot); err != nil {
		log.Error().Err(err).Msg("failed to create chatbot")
		return nil, errors.New("创建机器人失败")
	}

	if _, err := s.versions.Append(ctx, chatbot.ID, name, prompt, username, ""); err != nil {
		return nil, err
	}

	// 贡献分记账失败不影响创建结果
	if err := s.userRepo.IncContribution(ctx, userID, scoreCreateBot); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to add contribution score")
	}

	created, err := s.chatbotRepo.FindByID(ctx, chatbot.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update 编辑机器人，产生新版本（仅所有者）
// 名称和提示词都进版本日志，主记录的冗余字段由指针移动同步
func (s *BotService) Update(ctx context.Context, chatbotID, userID, username, name, prompt, category string) (*bot.Version, error) {
	chatbot, err := s.chatbotRepo.FindByID(ctx, chatbotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatbotNotFound
		}
		return nil, err
	}
	if chatbot.UserID != userID {
		return nil, ErrForbidden
	}

	return s.versions.Append(ctx, chatbotID, name, prompt, username, category)
}

// Get 查询单个机器人
func (s *BotService) Get(ctx context.Context, chatbotID string) (*bot.Chatbot, error) {
	chatbot, err := s.chatbotRepo.FindByID(ctx, chatbotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatbotNotFound
		}
		return nil, err
	}
	return chatbot, nil
}

// Detail 机器人详情页数据：主记录 + 版本日志 + 评论
func (s *BotService) Detail(ctx context.Context, chatbotID string) (*bot.Chatbot, []*bot.Version, []*bot.Comment, error) {
	chatbot, err := s.Get(ctx, chatbotID)
	if err != nil {
		return nil, nil, nil, err
	}
	versions, err := s.versions.List(ctx, chatbotID)
	if err != nil {
		return nil, nil, nil, err
	}
	comments, err := s.commentRepo.ListByChatbot(ctx, chatbotID)
	if err != nil {
		return nil, nil, nil, err
	}
	return chatbot, versions, comments, nil
}

// ListMine 查询当前用户的机器人
func (s *BotService) ListMine(ctx context.Context, userID string) ([]*bot.Chatbot, error) {
	return s.chatbotRepo.ListByUser(ctx, userID)
}

// ListPublic 查询公开机器人
func (s *BotService) ListPublic(ctx context.Context) ([]*bot.Chatbot, error) {
	return s.chatbotRepo.ListPublic(ctx)
}

// ListSystem 查询系统内置机器人
func (s *BotService) ListSystem(ctx context.Context) ([]*bot.Chatbot, error) {
	return s.chatbotRepo.ListByAuthor(ctx, bot.AuthorSystem)
}

// ListByUser 查询指定用户的机器人（个人主页）
func (s *BotService) ListByUser(ctx context.Context, userID string) ([]*bot.Chatbot, error) {
	return s.chatbotRepo.ListByUser(ctx, userID)
}

// AddComment 给机器人添加评论
// 登录用户评论会得到贡献分，匿名评论只留显示名称
func (s *BotService) AddComment(ctx context.Context, chatbotID, name, message, commenterID string) (*bot.Comment, error) {
	if _, err := s.Get(ctx, chatbotID); err != nil {
		return nil, err
	}

	comment := &bot.Comment{
		ID:        id.New(), // 生成UUID
		ChatbotID: chatbotID,
		Name:      name,
		Message:   message,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		log.Error().Err(err).Str("chatbot_id", chatbotID).Msg("failed to create comment")
		return nil, errors.New("创建评论失败")
	}

	if commenterID != "" {
		if err := s.userRepo.IncContribution(ctx, commenterID, scoreComment); err != nil {
			log.Warn().Err(err).Str("user_id", commenterID).Msg("failed to add contribution score")
		}
	}

	return comment, nil
}
