package image

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Image 生成图片记录
// 只保存提示词与元数据，图片本体由外部生成服务按提示词渲染
type Image struct {
	ID     string `bson:"_id,omitempty" json:"id"` // 图片ID（UUID）
	UserID string `bson:"user_id" json:"user_id"`

	Prompt string `bson:"prompt" json:"prompt"` // 生成提示词
	Public bool   `bson:"public" json:"public"` // 是否公开

	// 社区计数器
	Likes   int `bson:"likes" json:"likes"`
	Reports int `bson:"reports" json:"reports"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Collection 返回集合名称
func (i *Image) Collection() string { return "images" }

// EnsureIndexes 创建和维护索引
func (i *Image) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(i.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
		{
			Keys:    bson.D{{Key: "public", Value: 1}},
			Options: options.Index().SetName("idx_public"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
