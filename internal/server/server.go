package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"pomelo/internal/ai"
	"pomelo/internal/config"
	"pomelo/internal/handler"
	actionHandler "pomelo/internal/handler/action"
	authHandler "pomelo/internal/handler/auth"
	botHandler "pomelo/internal/handler/bot"
	imageHandler "pomelo/internal/handler/image"
	"pomelo/internal/pkg/cache"
	"pomelo/internal/pkg/jwt"
	"pomelo/internal/pkg/mongodb"
	actionRepo "pomelo/internal/repository/action"
	authRepo "pomelo/internal/repository/auth"
	botRepo "pomelo/internal/repository/bot"
	imageRepo "pomelo/internal/repository/image"
	"pomelo/internal/server/middleware"
	"pomelo/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 初始化 MongoDB（必需，所有业务数据都在这里）
	mongoClient, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	// 初始化 Redis（可选，缺失时匿名试用接口不开放）
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
	}

	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	db := s.mongo.Database()

	// 仓库层
	userRepo := authRepo.NewUserRepo(db)
	chatbotRepo := botRepo.NewChatbotRepo(db)
	versionRepo := botRepo.NewVersionRepo(db)
	turnRepo := botRepo.NewTurnRepo(db)
	commentRepo := botRepo.NewCommentRepo(db)
	imgRepo := imageRepo.NewImageRepo(db)
	entityRepo := actionRepo.NewEntityRepo(db)

	// 从配置读取JWT参数，如果没有配置则使用默认值
	jwtSecret := s.cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}
	accessTokenExpiry := s.cfg.Auth.AccessTokenExpiry
	if accessTokenExpiry == 0 {
		accessTokenExpiry = 24 * time.Hour
	}
	jwtUtil := jwt.NewJWT(jwtSecret, accessTokenExpiry)

	// 匿名配额（需要 Redis）
	var quotaGuard *service.QuotaGuard
	if s.redis != nil {
		quotaStore := cache.NewQuotaStore(s.redis, s.cfg.Quota.SessionTTL)
		quotaGuard = service.NewQuotaGuard(quotaStore, int64(s.cfg.Quota.AnonymousLimit))
	}

	// 服务层
	completer := ai.NewEinoCompleter(&s.cfg.AI)
	authSvc := service.NewAuthService(userRepo, jwtSecret, accessTokenExpiry)
	versionSvc := service.NewVersionService(chatbotRepo, versionRepo)
	botSvc := service.NewBotService(chatbotRepo, commentRepo, userRepo, versionSvc)
	chatSvc := service.NewChatService(chatbotRepo, turnRepo, completer, quotaGuard)
	imageSvc := service.NewImageService(imgRepo, userRepo)
	actionSvc := service.NewActionService(entityRepo, userRepo, versionRepo, turnRepo)

	// 处理器
	authHdl := authHandler.NewHandler(authSvc)
	botHdl := botHandler.NewHandler(botSvc, chatSvc, versionSvc)
	imageHdl := imageHandler.NewHandler(imageSvc)
	actionHdl := actionHandler.NewHandler(actionSvc)

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		// 认证接口（公开）
		v1.POST("/auth/register", authHdl.Register)
		v1.POST("/auth/login", authHdl.Login)

		// 公开的机器人队列和详情
		v1.GET("/bots/public", botHdl.ListPublic)
		v1.GET("/bots/system", botHdl.ListSystem)
		v1.GET("/bots/:id/data", botHdl.Detail)
		v1.GET("/users/:id/bots", botHdl.ListByUser)
		v1.POST("/bots/:id/comments", middleware.OptionalAuth(jwtUtil), botHdl.AddComment)

		// 公开图片
		v1.GET("/images/public", imageHdl.ListPublic)

		// 社区操作：点赞/举报公开，发布/删除需要登录
		v1.POST("/actions/:kind/:id/like", actionHdl.Like)
		v1.POST("/actions/:kind/:id/report", actionHdl.Report)
		v1.POST("/actions/:kind/:id/publish", middleware.Auth(jwtUtil), actionHdl.Publish)
		v1.DELETE("/actions/:kind/:id", middleware.Auth(jwtUtil), actionHdl.Delete)

		// 匿名试用（需要 Redis 做配额计数）
		if quotaGuard != nil {
			anonHdl := handler.NewAnonChatHandler(chatSvc, quotaGuard)
			anon := v1.Group("", middleware.AnonSession())
			anon.POST("/chat", anonHdl.Chat)
			anon.GET("/quota", anonHdl.Quota)
		} else {
			log.Warn().Msg("Redis not configured, anonymous trial endpoints disabled")
		}

		// 需要认证的接口
		authed := v1.Group("", middleware.Auth(jwtUtil))
		{
			authed.GET("/auth/me", authHdl.GetMe)
			authed.PUT("/auth/profile", authHdl.UpdateProfile)

			authed.POST("/bots", botHdl.Create)
			authed.GET("/bots", botHdl.ListMine)
			authed.GET("/bots/:id", botHdl.Get)
			authed.PUT("/bots/:id", botHdl.Update)
			authed.POST("/bots/:id/revert", botHdl.Revert)
			authed.POST("/bots/:id/chat", botHdl.Chat)
			authed.DELETE("/bots/:id/history", botHdl.ClearHistory)

			authed.POST("/images", imageHdl.Create)
			authed.GET("/images", imageHdl.ListMine)
		}
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		if err := s.mongo.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
