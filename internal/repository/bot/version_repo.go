package bot

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pomelo/internal/model/bot"
)

// ErrVersionConflict 并发追加版本持续冲突（重试次数耗尽）
var ErrVersionConflict = errors.New("version number conflict after retries")

// 并发追加时 duplicate key 的最大重试次数
const maxAppendRetries = 3

// VersionRepository 版本仓库接口（供 service 层依赖）
type VersionRepository interface {
	Append(ctx context.Context, v *bot.Version) error
	FindByID(ctx context.Context, chatbotID, versionID string) (*bot.Version, error)
	ListByChatbot(ctx context.Context, chatbotID string) ([]*bot.Version, error)
	DeleteByChatbot(ctx context.Context, chatbotID string) error
}

// VersionRepo 版本仓库（只追加）
type VersionRepo struct {
	coll *mongo.Collection
}

// NewVersionRepo 创建版本仓库
func NewVersionRepo(db *mongo.Database) *VersionRepo {
	var v bot.Version
	return &VersionRepo{coll: db.Collection(v.Collection())}
}

// Append 追加新版本，version_number = 当前最大值 + 1（无版本时为 1）
// 依赖 (chatbot_id, version_number) 唯一索引串行化并发写：
// 两个请求算出同一序号时后写入方收到 duplicate key，重算后重试，
// 保证序号从 1 开始无空洞递增
func (r *VersionRepo) Append(ctx context.Context, v *bot.Version) error {
	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		latest, err := r.latestNumber(ctx, v.ChatbotID)
		if err != nil {
			return err
		}
		v.VersionNumber = latest + 1
		v.CreatedAt = time.Now()

		_, err = r.coll.InsertOne(ctx, v)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return err
		}
	}
	return ErrVersionConflict
}

// latestNumber 读取机器人当前最大版本号，无版本返回 0
func (r *VersionRepo) latestNumber(ctx context.Context, chatbotID string) (int, error) {
	opts := options.FindOne().SetSort(bson.M{"version_number": -1})
	var latest bot.Version
	err := r.coll.FindOne(ctx, bson.M{"chatbot_id": chatbotID}, opts).Decode(&latest)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return latest.VersionNumber, nil
}

// FindByID 查询版本，同时校验归属机器人
// 指针只能指向本机器人的版本，这里的归属过滤是该不变式的落点
func (r *VersionRepo) FindByID(ctx context.Context, chatbotID, versionID string) (*bot.Version, error) {
	var v bot.Version
	err := r.coll.FindOne(ctx, bson.M{"_id": versionID, "chatbot_id": chatbotID}).Decode(&v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByChatbot 查询机器人的全部版本（按版本号倒序，最新在前）
func (r *VersionRepo) ListByChatbot(ctx context.Context, chatbotID string) ([]*bot.Version, error) {
	opts := options.Find().SetSort(bson.M{"version_number": -1})
	cur, err := r.coll.Find(ctx, bson.M{"chatbot_id": chatbotID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var versions []*bot.Version
	if err := cur.All(ctx, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// DeleteByChatbot 删除机器人的全部版本（机器人删除时级联）
func (r *VersionRepo) DeleteByChatbot(ctx context.Context, chatbotID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"chatbot_id": chatbotID})
	return err
}
