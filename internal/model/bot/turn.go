package bot

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Turn 一次完整的对话交换（用户提问 + 助手回复）
// 归属于 (chatbot_id, user_id)，即使机器人公开，历史也不跨用户共享
type Turn struct {
	ID        string `bson:"_id,omitempty" json:"id"` // 轮次ID（UUID）
	ChatbotID string `bson:"chatbot_id" json:"chatbot_id"`
	UserID    string `bson:"user_id" json:"user_id"`

	Query    string `bson:"query" json:"query"`       // 用户提问
	Response string `bson:"response" json:"response"` // 助手回复

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Collection 返回集合名称
func (t *Turn) Collection() string { return "chat_turns" }

// EnsureIndexes 创建和维护索引
func (t *Turn) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(t.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "chatbot_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_chatbot_user_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
