package bot

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pomelo/internal/model/bot"
)

// ChatbotRepository 机器人仓库接口（供 service 层依赖）
type ChatbotRepository interface {
	Create(ctx context.Context, chatbot *bot.Chatbot) error
	FindByID(ctx context.Context, id string) (*bot.Chatbot, error)
	ListByUser(ctx context.Context, userID string) ([]*bot.Chatbot, error)
	ListPublic(ctx context.Context) ([]*bot.Chatbot, error)
	ListByAuthor(ctx context.Context, author bot.AuthorTag) ([]*bot.Chatbot, error)
	SetCurrentVersion(ctx context.Context, id string, v *bot.Version, avatar, category string) error
	Delete(ctx context.Context, id string) error
}

// ChatbotRepo 机器人仓库
type ChatbotRepo struct {
	coll *mongo.Collection
}

// NewChatbotRepo 创建机器人仓库
func NewChatbotRepo(db *mongo.Database) *ChatbotRepo {
	var b bot.Chatbot
	return &ChatbotRepo{coll: db.Collection(b.Collection())}
}

// Create 创建机器人
func (r *ChatbotRepo) Create(ctx context.Context, chatbot *bot.Chatbot) error {
	now := time.Now()
	chatbot.CreatedAt = now
	chatbot.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, chatbot)
	return err
}

// FindByID 根据ID查询
func (r *ChatbotRepo) FindByID(ctx context.Context, id string) (*bot.Chatbot, error) {
	var b bot.Chatbot
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser 查询某用户的所有机器人（按创建时间倒序）
func (r *ChatbotRepo) ListByUser(ctx context.Context, userID string) ([]*bot.Chatbot, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

// ListPublic 查询所有公开机器人
func (r *ChatbotRepo) ListPublic(ctx context.Context) ([]*bot.Chatbot, error) {
	return r.list(ctx, bson.M{"public": true})
}

// ListByAuthor 按作者标记查询（如系统内置机器人）
func (r *ChatbotRepo) ListByAuthor(ctx context.Context, author bot.AuthorTag) ([]*bot.Chatbot, error) {
	return r.list(ctx, bson.M{"author": author})
}

func (r *ChatbotRepo) list(ctx context.Context, filter bson.M) ([]*bot.Chatbot, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bots []*bot.Chatbot
	if err := cur.All(ctx, &bots); err != nil {
		return nil, err
	}
	return bots, nil
}

// SetCurrentVersion 移动当前版本指针，并同步冗余的名称/提示词
// 只接受 VersionRepo 已经持久化的版本，调用方负责校验归属
func (r *ChatbotRepo) SetCurrentVersion(ctx context.Context, id string, v *bot.Version, avatar, category string) error {
	set := bson.M{
		"current_version_id":     v.ID,
		"current_version_number": v.VersionNumber,
		"name":                   v.Name,
		"prompt":                 v.Prompt,
		"updated_at":             time.Now(),
	}
	if avatar != "" {
		set["avatar"] = avatar
	}
	if category != "" {
		set["category"] = category
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// Delete 删除机器人
// 版本日志和对话历史的级联删除由 service 层编排
func (r *ChatbotRepo) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
