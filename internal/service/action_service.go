package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"pomelo/internal/model/auth"
	"pomelo/internal/model/bot"
	"pomelo/internal/model/image"
	actionRepo "pomelo/internal/repository/action"
	authRepo "pomelo/internal/repository/auth"
	botRepo "pomelo/internal/repository/bot"
)

var (
	ErrEntityNotFound   = errors.New("实体不存在")
	ErrUnknownEntity    = errors.New("不支持的实体类型")
	ErrActionNotAllowed = errors.New("该实体类型不支持此操作")
)

// EntityKind 社区操作的目标实体类型
type EntityKind string

const (
	KindChatbot EntityKind = "chatbot"
	KindImage   EntityKind = "image"
	KindUser    EntityKind = "user"
	KindComment EntityKind = "comment"
)

// capability 描述一种实体类型支持的社区操作
// 点赞和举报对所有类型开放，发布和删除按类型收紧
type capability struct {
	collection string
	canPublish bool
	canDelete  bool
}

var capabilities = map[EntityKind]capability{
	KindChatbot: {collection: (&bot.Chatbot{}).Collection(), canPublish: true, canDelete: true},
	KindImage:   {collection: (&image.Image{}).Collection(), canPublish: true, canDelete: true},
	KindUser:    {collection: (&auth.User{}).Collection()},
	KindComment: {collection: (&bot.Comment{}).Collection()},
}

// ActionService 社区操作服务
// 点赞/举报/发布/删除按实体类型查能力表分发到同一套通用仓库，
// 新增实体类型只需要补一行能力表
type ActionService struct {
	entityRepo  actionRepo.EntityRepository
	userRepo    authRepo.UserRepository
	versionRepo botRepo.VersionRepository
	turnRepo    botRepo.TurnRepository
}

// NewActionService 创建社区操作服务
func NewActionService(
	entityRepo actionRepo.EntityRepository,
	userRepo authRepo.UserRepository,
	versionRepo botRepo.VersionRepository,
	turnRepo botRepo.TurnRepository,
) *ActionService {
	return &ActionService{
		entityRepo:  entityRepo,
		userRepo:    userRepo,
		versionRepo: versionRepo,
		turnRepo:    turnRepo,
	}
}

// Like 点赞
func (s *ActionService) Like(ctx context.Context, kind EntityKind, entityID string) error {
	return s.incCounter(ctx, kind, entityID, "likes")
}

// Report 举报
func (s *ActionService) Report(ctx context.Context, kind EntityKind, entityID string) error {
	return s.incCounter(ctx, kind, entityID, "reports")
}

func (s *ActionService) incCounter(ctx context.Context, kind EntityKind, entityID, field string) error {
	cap, ok := capabilities[kind]
	if !ok {
		return ErrUnknownEntity
	}
	err := s.entityRepo.IncCounter(ctx, cap.collection, entityID, field)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrEntityNotFound
	}
	return err
}

// Publish 翻转公开状态（仅所有者），返回翻转后的状态
// 首次公开给作者加贡献分，转回私有不扣分
func (s *ActionService) Publish(ctx context.Context, kind EntityKind, entityID, callerID string) (bool, error) {
	cap, ok := capabilities[kind]
	if !ok {
		return false, ErrUnknownEntity
	}
	if !cap.canPublish {
		return false, ErrActionNotAllowed
	}

	if err := s.checkOwner(ctx, cap, entityID, callerID); err != nil {
		return false, err
	}

	public, err := s.entityRepo.TogglePublic(ctx, cap.collection, entityID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrEntityNotFound
		}
		return false, err
	}

	if public {
		if err := s.userRepo.IncContribution(ctx, callerID, scorePublish); err != nil {
			log.Warn().Err(err).Str("user_id", callerID).Msg("failed to add contribution score")
		}
	}

	return public, nil
}

// Delete 删除实体（仅所有者）
// 机器人删除时级联清掉版本日志和对话历史
func (s *ActionService) Delete(ctx context.Context, kind EntityKind, entityID, callerID string) error {
	cap, ok := capabilities[kind]
	if !ok {
		return ErrUnknownEntity
	}
	if !cap.canDelete {
		return ErrActionNotAllowed
	}

	if err := s.checkOwner(ctx, cap, entityID, callerID); err != nil {
		return err
	}

	if err := s.entityRepo.Delete(ctx, cap.collection, entityID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrEntityNotFound
		}
		return err
	}

	if kind == KindChatbot {
		if err := s.versionRepo.DeleteByChatbot(ctx, entityID); err != nil {
			log.Error().Err(err).Str("chatbot_id", entityID).Msg("failed to cascade delete versions")
			return err
		}
		if err := s.turnRepo.DeleteByChatbot(ctx, entityID); err != nil {
			log.Error().Err(err).Str("chatbot_id", entityID).Msg("failed to cascade delete turns")
			return err
		}
	}

	log.Info().Str("kind", string(kind)).Str("entity_id", entityID).Msg("entity deleted")
	return nil
}

func (s *ActionService) checkOwner(ctx context.Context, cap capability, entityID, callerID string) error {
	owner, err := s.entityRepo.Owner(ctx, cap.collection, entityID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrEntityNotFound
		}
		return err
	}
	if owner != callerID {
		return ErrForbidden
	}
	return nil
}
