package bot

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pomelo/internal/model/bot"
)

// CommentRepository 评论仓库接口（供 service 层依赖）
type CommentRepository interface {
	Create(ctx context.Context, comment *bot.Comment) error
	ListByChatbot(ctx context.Context, chatbotID string) ([]*bot.Comment, error)
}

// CommentRepo 评论仓库
type CommentRepo struct {
	coll *mongo.Collection
}

// NewCommentRepo 创建评论仓库
func NewCommentRepo(db *mongo.Database) *CommentRepo {
	var c bot.Comment
	return &CommentRepo{coll: db.Collection(c.Collection())}
}

// Create 创建评论
func (r *CommentRepo) Create(ctx context.Context, comment *bot.Comment) error {
	comment.CreatedAt = time.Now()
	_, err := r.coll.InsertOne(ctx, comment)
	return err
}

// ListByChatbot 查询机器人的全部评论（按时间倒序）
func (r *CommentRepo) ListByChatbot(ctx context.Context, chatbotID string) ([]*bot.Comment, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := r.coll.Find(ctx, bson.M{"chatbot_id": chatbotID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var comments []*bot.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
