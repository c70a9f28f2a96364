package bot

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Comment 机器人评论
type Comment struct {
	ID        string `bson:"_id,omitempty" json:"id"` // 评论ID（UUID）
	ChatbotID string `bson:"chatbot_id" json:"chatbot_id"`

	Name    string `bson:"name" json:"name"`       // 评论者显示名称
	Message string `bson:"message" json:"message"` // 评论内容

	// 社区计数器
	Likes   int `bson:"likes" json:"likes"`
	Reports int `bson:"reports" json:"reports"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Collection 返回集合名称
func (c *Comment) Collection() string { return "comments" }

// EnsureIndexes 创建和维护索引
func (c *Comment) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(c.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "chatbot_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_chatbot_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
