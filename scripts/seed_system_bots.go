package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"

	"pomelo/internal/config"
	"pomelo/internal/model/auth"
	"pomelo/internal/model/bot"
	"pomelo/internal/pkg/avatar"
	"pomelo/internal/pkg/id"
	"pomelo/internal/pkg/logger"
	"pomelo/internal/pkg/mongodb"
	"pomelo/internal/pkg/password"
	authrepo "pomelo/internal/repository/auth"
	botrepo "pomelo/internal/repository/bot"
	"pomelo/internal/service"
)

// systemUsername 系统机器人的挂靠账号
const systemUsername = "system"

// 内置机器人：所有用户可见可用，作者标记为 system
var systemBots = []struct {
	Name     string
	Prompt   string
	Category string
}{
	{
		Name:     "General Assistant",
		Prompt:   "You are a helpful assistant.",
		Category: "general",
	},
	{
		Name:     "Interview Coach",
		Prompt:   "You are an experienced interviewer. Ask the user one interview question at a time for the role they mention, then give concise feedback on each answer before asking the next question.",
		Category: "career",
	},
	{
		Name:     "English Tutor",
		Prompt:   "You are a patient English tutor. Correct the user's grammar mistakes, explain the corrections briefly, and continue the conversation in simple English.",
		Category: "education",
	},
	{
		Name:     "Fitness Trainer",
		Prompt:   "You are a certified personal trainer. Design workout plans and answer fitness questions. Always remind the user to consult a doctor before starting a new routine.",
		Category: "health",
	},
}

func main() {
	// 1. 加载配置（与 cmd/root.go 保持一致的搜索路径）
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.pomelo")

	viper.SetEnvPrefix("POMELO")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
		os.Exit(1)
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	// 2. 连接 MongoDB
	client, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	db := client.Database()
	ctx := context.Background()

	if err := mongodb.EnsureIndexes(db); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	userRepo := authrepo.NewUserRepo(db)
	chatbotRepo := botrepo.NewChatbotRepo(db)
	versionRepo := botrepo.NewVersionRepo(db)
	versions := service.NewVersionService(chatbotRepo, versionRepo)

	// 3. 确保系统账号存在
	systemUser, err := ensureSystemUser(ctx, userRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to ensure system user")
	}

	// 4. 逐个补齐内置机器人（已存在的跳过，重复执行安全）
	existing, err := chatbotRepo.ListByAuthor(ctx, bot.AuthorSystem)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list system bots")
	}
	present := make(map[string]bool, len(existing))
	for _, b := range existing {
		present[b.Name] = true
	}

	created := 0
	for _, seed := range systemBots {
		if present[seed.Name] {
			continue
		}

		chatbot := &bot.Chatbot{
			ID:       id.New(),
			UserID:   systemUser.ID,
			Category: seed.Category,
			Public:   true,
			Author:   bot.AuthorSystem,
		}
		if err := chatbotRepo.Create(ctx, chatbot); err != nil {
			log.Fatal().Err(err).Str("name", seed.Name).Msg("failed to create system bot")
		}
		if _, err := versions.Append(ctx, chatbot.ID, seed.Name, seed.Prompt, systemUsername, ""); err != nil {
			log.Fatal().Err(err).Str("name", seed.Name).Msg("failed to append initial version")
		}
		created++
		log.Info().Str("name", seed.Name).Msg("system bot created")
	}

	fmt.Printf("System bots seeded: %d created, %d already present\n", created, len(present))
}

func ensureSystemUser(ctx context.Context, repo *authrepo.UserRepo) (*auth.User, error) {
	user, err := repo.FindByUsername(ctx, systemUsername)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// 系统账号不用于登录，密码随机生成后即丢弃
	hashed, err := password.Hash(id.New())
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user = &auth.User{
		ID:        id.New(),
		Username:  systemUsername,
		Email:     "system@pomelo.local",
		Password:  hashed,
		Name:      "Pomelo",
		Avatar:    avatar.ForUser("Pomelo"),
		Bio:       "Built-in chatbots",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("username", systemUsername).Msg("system user created")
	return user, nil
}
