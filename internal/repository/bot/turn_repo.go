package bot

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pomelo/internal/model/bot"
)

// TurnRepository 对话轮次仓库接口（供 service 层依赖）
type TurnRepository interface {
	Create(ctx context.Context, turn *bot.Turn) error
	ListByChatbotAndUser(ctx context.Context, chatbotID, userID string) ([]*bot.Turn, error)
	DeleteByChatbotAndUser(ctx context.Context, chatbotID, userID string) (int64, error)
	DeleteByChatbot(ctx context.Context, chatbotID string) error
}

// TurnRepo 对话轮次仓库
type TurnRepo struct {
	coll *mongo.Collection
}

// NewTurnRepo 创建对话轮次仓库
func NewTurnRepo(db *mongo.Database) *TurnRepo {
	var t bot.Turn
	return &TurnRepo{coll: db.Collection(t.Collection())}
}

// Create 持久化一次对话交换
func (r *TurnRepo) Create(ctx context.Context, turn *bot.Turn) error {
	turn.CreatedAt = time.Now()
	_, err := r.coll.InsertOne(ctx, turn)
	return err
}

// ListByChatbotAndUser 查询某用户与某机器人的全部轮次（按时间正序，最旧在前）
// 上下文装配依赖这个顺序
func (r *TurnRepo) ListByChatbotAndUser(ctx context.Context, chatbotID, userID string) ([]*bot.Turn, error) {
	filter := bson.M{"chatbot_id": chatbotID, "user_id": userID}
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var turns []*bot.Turn
	if err := cur.All(ctx, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// DeleteByChatbotAndUser 清空某用户与某机器人的历史，返回删除条数
func (r *TurnRepo) DeleteByChatbotAndUser(ctx context.Context, chatbotID, userID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"chatbot_id": chatbotID, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByChatbot 删除机器人的全部轮次（机器人删除时级联）
func (r *TurnRepo) DeleteByChatbot(ctx context.Context, chatbotID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"chatbot_id": chatbotID})
	return err
}
