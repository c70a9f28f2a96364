package bot

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuthorTag 机器人作者标记
type AuthorTag string

const (
	AuthorSystem AuthorTag = "system" // 系统内置机器人
	AuthorUser   AuthorTag = "user"   // 用户创建的机器人
)

// Chatbot 机器人实体（主表）
// 提示词本体存放在 chatbot_versions 中，这里只保留当前版本指针
type Chatbot struct {
	ID     string `bson:"_id,omitempty" json:"id"` // 机器人ID（UUID）
	UserID string `bson:"user_id" json:"user_id"`  // 所属用户

	Avatar   string    `bson:"avatar,omitempty" json:"avatar,omitempty"` // 头像URL（根据当前版本名称生成）
	Category string    `bson:"category,omitempty" json:"category,omitempty"`
	Public   bool      `bson:"public" json:"public"`         // 是否公开
	Author   AuthorTag `bson:"author" json:"author"`         // system 或 user

	// 当前版本指针
	// 只能指向本机器人已存在的版本，由 VersionRepo 保证
	CurrentVersionID     string `bson:"current_version_id" json:"current_version_id"`
	CurrentVersionNumber int    `bson:"current_version_number" json:"current_version_number"`

	// 冗余当前版本的名称和提示词，读路径无需再查版本表
	Name   string `bson:"name" json:"name"`
	Prompt string `bson:"prompt" json:"prompt"`

	// 社区计数器
	Likes   int `bson:"likes" json:"likes"`
	Reports int `bson:"reports" json:"reports"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Collection 返回集合名称
func (b *Chatbot) Collection() string { return "chatbots" }

// EnsureIndexes 创建和维护索引
func (b *Chatbot) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(b.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
		{
			Keys:    bson.D{{Key: "public", Value: 1}},
			Options: options.Index().SetName("idx_public"),
		},
		{
			Keys:    bson.D{{Key: "author", Value: 1}},
			Options: options.Index().SetName("idx_author"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
