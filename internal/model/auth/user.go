package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// User 用户实体
// ID使用UUID格式（string），避免ObjectID转换的麻烦
type User struct {
	ID       string `bson:"_id,omitempty" json:"id"`                  // UUID格式的ID
	Username string `bson:"username" json:"username"`                 // 用户名（唯一）
	Email    string `bson:"email" json:"email"`                       // 邮箱（唯一）
	Password string `bson:"password" json:"-"`                        // 密码（加密存储，不返回）
	Name     string `bson:"name" json:"name"`                         // 显示名称
	Avatar   string `bson:"avatar,omitempty" json:"avatar,omitempty"` // 头像URL（根据名称生成）
	Bio      string `bson:"bio,omitempty" json:"bio,omitempty"`       // 个人简介

	// 社区计数器
	Likes             int `bson:"likes" json:"likes"`                            // 获赞数
	Reports           int `bson:"reports" json:"reports"`                        // 被举报数
	ContributionScore int `bson:"contribution_score" json:"contribution_score"` // 贡献分

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// Collection 返回集合名称
func (u *User) Collection() string { return "users" }

// EnsureIndexes 创建和维护索引
func (u *User) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(u.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("idx_username").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "contribution_score", Value: -1}},
			Options: options.Index().SetName("idx_contribution"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
