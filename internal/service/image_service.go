package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"pomelo/internal/model/image"
	"pomelo/internal/pkg/id"
	authRepo "pomelo/internal/repository/auth"
	imageRepo "pomelo/internal/repository/image"
)

// ImageService 图片服务
// 只管理提示词记录，渲染由外部服务按提示词完成
type ImageService struct {
	imageRepo imageRepo.ImageRepository
	userRepo  authRepo.UserRepository
}

// NewImageService 创建图片服务
func NewImageService(imageRepo imageRepo.ImageRepository, userRepo authRepo.UserRepository) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		userRepo:  userRepo,
	}
}

// Create 保存一条图片提示词记录；新图片默认私有
func (s *ImageService) Create(ctx context.Context, userID, prompt string) (*image.Image, error) {
	img := &image.Image{
		ID:     id.New(), // 生成UUID
		UserID: userID,
		Prompt: prompt,
		Public: false,
	}
	if err := s.imageRepo.Create(ctx, img); err != nil {
		log.Error().Err(err).Msg("failed to create image")
		return nil, errors.New("创建图片失败")
	}

	// 贡献分记账失败不影响创建结果
	if err := s.userRepo.IncContribution(ctx, userID, scoreCreateImage); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to add contribution score")
	}

	return img, nil
}

// ListMine 查询当前用户的图片
func (s *ImageService) ListMine(ctx context.Context, userID string) ([]*image.Image, error) {
	return s.imageRepo.ListByUser(ctx, userID)
}

// ListPublic 查询公开图片
func (s *ImageService) ListPublic(ctx context.Context) ([]*image.Image, error) {
	return s.imageRepo.ListPublic(ctx)
}
