package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"pomelo/internal/model/auth"
	"pomelo/internal/model/bot"
	"pomelo/internal/model/image"
)

// EnsureIndexes 创建所有模型的索引
// 这是一个统一的入口，用于在应用启动时创建所有模型的索引
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	models := []Model{
		&auth.User{},
		&bot.Chatbot{},
		&bot.Version{},
		&bot.Turn{},
		&bot.Comment{},
		&image.Image{},
	}

	return EnsureAllIndexes(ctx, db, models...)
}
