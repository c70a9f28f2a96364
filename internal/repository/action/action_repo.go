package action

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EntityRepository 跨实体类型的通用操作接口（供 service 层依赖）
// 点赞/举报/发布/删除对 chatbot、image、user、comment 的写法完全一致，
// 只有集合名不同，所以按集合参数化而不是每个实体各写一份
type EntityRepository interface {
	Exists(ctx context.Context, collection, id string) (bool, error)
	Owner(ctx context.Context, collection, id string) (string, error)
	IncCounter(ctx context.Context, collection, id, field string) error
	TogglePublic(ctx context.Context, collection, id string) (bool, error)
	Delete(ctx context.Context, collection, id string) error
}

// EntityRepo 通用实体仓库
type EntityRepo struct {
	db *mongo.Database
}

// NewEntityRepo 创建通用实体仓库
func NewEntityRepo(db *mongo.Database) *EntityRepo {
	return &EntityRepo{db: db}
}

// Exists 检查实体是否存在
func (r *EntityRepo) Exists(ctx context.Context, collection, id string) (bool, error) {
	n, err := r.db.Collection(collection).CountDocuments(ctx, bson.M{"_id": id})
	return n > 0, err
}

// Owner 读取实体所属用户ID
// 实体不存在时返回 mongo.ErrNoDocuments
func (r *EntityRepo) Owner(ctx context.Context, collection, id string) (string, error) {
	var doc struct {
		UserID string `bson:"user_id"`
	}
	err := r.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return "", err
	}
	return doc.UserID, nil
}

// IncCounter 原子递增计数器字段（likes / reports）
func (r *EntityRepo) IncCounter(ctx context.Context, collection, id, field string) error {
	res, err := r.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{field: 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// TogglePublic 翻转公开状态，返回翻转后的值
func (r *EntityRepo) TogglePublic(ctx context.Context, collection, id string) (bool, error) {
	coll := r.db.Collection(collection)

	var doc struct {
		Public bool `bson:"public"`
	}
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return false, err
	}

	next := !doc.Public
	_, err := coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"public": next, "updated_at": time.Now()}},
	)
	return next, err
}

// Delete 删除实体
func (r *EntityRepo) Delete(ctx context.Context, collection, id string) error {
	res, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
