package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fabula/internal/ai"
	"fabula/internal/config"
	"fabula/internal/handler"
	aiHandler "fabula/internal/handler/ai"
	authHandler "fabula/internal/handler/auth"
	mediaHandler "fabula/internal/handler/media"
	storyHandler "fabula/internal/handler/story"
	authModel "fabula/internal/model/auth"
	storyModel "fabula/internal/model/story"
	"fabula/internal/pkg/analytics"
	arkvision "fabula/internal/pkg/ark"
	"fabula/internal/pkg/cache"
	"fabula/internal/pkg/imaging"
	"fabula/internal/pkg/mongodb"
	"fabula/internal/pkg/oauthx"
	"fabula/internal/pkg/retry"
	"fabula/internal/pkg/session"
	"fabula/internal/pkg/storagefactory"
	"fabula/internal/pkg/vision"
	authRepo "fabula/internal/repository/auth"
	storyRepo "fabula/internal/repository/story"
	"fabula/internal/server/middleware"
	"fabula/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg        *config.Config
	engine     *gin.Engine
	mongo      *mongodb.Client
	stateStore *cache.StateStore
}

// New 创建服务器实例
// 外部客户端（标注、生成、数据库）在此一次性初始化并注入各层
func New(cfg *config.Config) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// MongoDB（必需，所有持久化都依赖它）
	mongoClient, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	ctx := context.Background()
	models := []mongodb.Model{
		&authModel.User{},
		&storyModel.Entry{},
		&storyModel.MediaItem{},
	}
	if err := mongodb.EnsureAllIndexes(ctx, mongoClient.Database(), models...); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	// Redis（可选，仅用于 OAuth state 一次性校验）
	var stateStore *cache.StateStore
	if cfg.Redis.Addr != "" {
		ss, err := cache.NewStateStore(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, oauth state check disabled")
		} else {
			stateStore = ss
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// 图片标注客户端
	annotator, err := newAnnotator(&cfg.Vision)
	if err != nil {
		return nil, err
	}
	log.Info().Str("provider", cfg.Vision.Provider).Msg("initialized annotation client")

	// 叙事生成客户端
	generator, err := ai.NewGenerator(ctx, &cfg.Generation)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}
	log.Info().Str("provider", cfg.Generation.Provider).Str("model", cfg.Generation.Model).Msg("initialized generation client")

	// 原图留存存储（可选）
	store, err := storagefactory.NewStorage(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	if store != nil {
		log.Info().Str("type", store.GetStorageType()).Msg("original image retention enabled")
	}

	optimizer := imaging.NewOptimizer(cfg.Media.MaxWidth, cfg.Media.JPEGQuality)
	analyticsClient := analytics.NewClient(&cfg.Analytics)
	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.CookieName, cfg.Session.MaxAge, cfg.Session.Secure)
	googleFlow := oauthx.NewGoogleFlow(&cfg.OAuth)

	retryPolicy := retry.Policy{
		MaxAttempts: cfg.Generation.Retry.MaxAttempts,
		BaseDelay:   cfg.Generation.Retry.BaseDelay,
		MaxDelay:    cfg.Generation.Retry.MaxDelay,
	}

	// 仓库与服务
	db := mongoClient.Database()
	userRepo := authRepo.NewUserRepo(db)
	entryRepo := storyRepo.NewEntryRepo(db)
	mediaRepo := storyRepo.NewMediaRepo(db)

	authSvc := service.NewAuthService(userRepo)
	narrativeSvc := service.NewNarrativeService(annotator, generator, retryPolicy, cfg.Media.MaxImages)
	storySvc := service.NewStoryService(entryRepo, optimizer, store)
	mediaSvc := service.NewMediaService(mediaRepo, optimizer, store)

	srv := &Server{
		cfg:        cfg,
		engine:     engine,
		mongo:      mongoClient,
		stateStore: stateStore,
	}

	srv.setupRoutes(authSvc, narrativeSvc, storySvc, mediaSvc, sessions, googleFlow, analyticsClient)

	return srv, nil
}

// newAnnotator 根据配置创建图片标注客户端
func newAnnotator(cfg *config.VisionConfig) (vision.Annotator, error) {
	switch cfg.Provider {
	case "vision", "":
		return vision.NewGoogleClient(cfg), nil
	case "ark":
		return arkvision.NewAnnotator(&cfg.Ark)
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", cfg.Provider)
	}
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(
	authSvc *service.AuthService,
	narrativeSvc *service.NarrativeService,
	storySvc *service.StoryService,
	mediaSvc *service.MediaService,
	sessions *session.Manager,
	googleFlow *oauthx.GoogleFlow,
	analyticsClient *analytics.Client,
) {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS(s.cfg.Server.FrontendOrigin))
	s.engine.Use(middleware.Session(sessions))

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHdl := authHandler.NewHandler(authSvc, sessions, googleFlow, s.stateStore, analyticsClient, s.cfg.Server.FrontendOrigin)
	aiHdl := aiHandler.NewHandler(narrativeSvc, storySvc, analyticsClient, s.cfg.Media.MaxImages)
	storyHdl := storyHandler.NewHandler(storySvc)
	mediaHdl := mediaHandler.NewHandler(mediaSvc)

	// OAuth（重定向流程）
	s.engine.GET("/google", authHdl.GoogleLogin)
	s.engine.GET("/google/callback", authHdl.GoogleCallback)

	// 叙事生成（公开）与保存（需要会话，保存接口内部校验）
	aiGroup := s.engine.Group("/ai")
	{
		aiGroup.POST("/generate-narrative", aiHdl.GenerateNarrative)
		aiGroup.POST("/save-entry", aiHdl.SaveEntry)
	}

	api := s.engine.Group("/api")
	{
		// 认证接口（公开）
		api.POST("/auth/signup", authHdl.Signup)
		api.POST("/auth/login", authHdl.Login)
		api.GET("/me", authHdl.Me)
		api.GET("/profile", authHdl.Profile)
		api.POST("/logout", authHdl.Logout)
		api.GET("/user/exists", authHdl.UserExists)

		// 需要会话的接口
		authed := api.Group("")
		authed.Use(middleware.RequireSession())
		{
			authed.GET("/stories", storyHdl.ListStories)
			authed.DELETE("/story/:id", storyHdl.DeleteStory)

			authed.POST("/media/upload", mediaHdl.Upload)
			authed.POST("/media/import", mediaHdl.Import)
			authed.GET("/media/list", mediaHdl.List)
			authed.DELETE("/media/delete/:id", mediaHdl.Delete)
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

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		if err := s.mongo.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
		if s.stateStore != nil {
			if err := s.stateStore.Close(); err != nil {
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
