package bot

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Version 机器人提示词版本（只追加，创建后不再修改）
// version_number 每个机器人内从 1 开始递增，不复用、不重排
type Version struct {
	ID        string `bson:"_id,omitempty" json:"id"` // 版本ID（UUID）
	ChatbotID string `bson:"chatbot_id" json:"chatbot_id"`

	VersionNumber int    `bson:"version_number" json:"version_number"` // 单调递增序号
	Name          string `bson:"name" json:"name"`                     // 该版本时的显示名称
	Prompt        string `bson:"prompt" json:"prompt"`                 // 系统提示词
	ModifiedBy    string `bson:"modified_by" json:"modified_by"`       // 编辑者（用户名或 system）

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Collection 返回集合名称
func (v *Version) Collection() string { return "chatbot_versions" }

// EnsureIndexes 创建和维护索引
// (chatbot_id, version_number) 唯一索引用于串行化并发的版本追加：
// 两个请求算出同一个序号时，后写入的会触发 duplicate key 并重试
func (v *Version) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(v.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "chatbot_id", Value: 1}, {Key: "version_number", Value: -1}},
			Options: options.Index().SetName("idx_chatbot_version").SetUnique(true),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
