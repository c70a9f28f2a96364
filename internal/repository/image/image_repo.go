package image

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pomelo/internal/model/image"
)

// ImageRepository 图片仓库接口（供 service 层依赖）
type ImageRepository interface {
	Create(ctx context.Context, img *image.Image) error
	ListByUser(ctx context.Context, userID string) ([]*image.Image, error)
	ListPublic(ctx context.Context) ([]*image.Image, error)
}

// ImageRepo 图片仓库
type ImageRepo struct {
	coll *mongo.Collection
}

// NewImageRepo 创建图片仓库
func NewImageRepo(db *mongo.Database) *ImageRepo {
	var i image.Image
	return &ImageRepo{coll: db.Collection(i.Collection())}
}

// Create 创建图片记录
func (r *ImageRepo) Create(ctx context.Context, img *image.Image) error {
	now := time.Now()
	img.CreatedAt = now
	img.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, img)
	return err
}

// ListByUser 查询某用户的全部图片（按创建时间倒序）
func (r *ImageRepo) ListByUser(ctx context.Context, userID string) ([]*image.Image, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

// ListPublic 查询所有公开图片
func (r *ImageRepo) ListPublic(ctx context.Context) ([]*image.Image, error) {
	return r.list(ctx, bson.M{"public": true})
}

func (r *ImageRepo) list(ctx context.Context, filter bson.M) ([]*image.Image, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var images []*image.Image
	if err := cur.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}
