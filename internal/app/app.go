package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"educonnect_backend/internal/config"
	"educonnect_backend/internal/controller"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/service"
	"educonnect_backend/pkg/database"
	"educonnect_backend/pkg/logger"
	"educonnect_backend/pkg/monitoring"
	"educonnect_backend/pkg/security"
	"educonnect_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user         *repository.UserRepository
	refreshToken *repository.RefreshTokenRepository
	content      *repository.ContentRepository
	quiz         *repository.QuizRepository
	exercise     *repository.ExerciseRepository
	achievement  *repository.AchievementRepository
	activity     *repository.ActivityRepository
	leaderboard  *repository.LeaderboardRepository
}

type services struct {
	achievement *service.AchievementService
	progression *service.ProgressionService
	auth        *service.AuthService
	content     *service.ContentService
	quiz        *service.QuizService
	exercise    *service.ExerciseService
	leaderboard *service.LeaderboardService
	user        *service.UserService
	storage     *service.StorageService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	content     *controller.ContentController
	quiz        *controller.QuizController
	exercise    *controller.ExerciseController
	leaderboard *controller.LeaderboardController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		refreshToken: repository.NewRefreshTokenRepository(db),
		content:      repository.NewContentRepository(db),
		quiz:         repository.NewQuizRepository(db),
		exercise:     repository.NewExerciseRepository(db),
		achievement:  repository.NewAchievementRepository(db),
		activity:     repository.NewActivityRepository(db),
		leaderboard:  repository.NewLeaderboardRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.achievement = service.NewAchievementService(db, repos.achievement)
	s.progression = service.NewProgressionService(db, s.achievement)
	s.auth = service.NewAuthService(db, cfg, repos.user, repos.refreshToken, s.progression, s.achievement)
	s.content = service.NewContentService(db, repos.content, repos.user, s.achievement)
	s.quiz = service.NewQuizService(db, repos.quiz, s.progression)
	s.exercise = service.NewExerciseService(db, repos.exercise, s.progression)
	s.leaderboard = service.NewLeaderboardService(repos.leaderboard, rdb)
	s.user = service.NewUserService(db, repos.user, repos.achievement, repos.activity, repos.content)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user, s.storage),
		content:     controller.NewContentController(s.content),
		quiz:        controller.NewQuizController(s.quiz),
		exercise:    controller.NewExerciseController(s.exercise),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 过期刷新令牌定时清理
func (a *App) startBackgroundTasks(repos *repositories) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		for range ticker.C {
			if err := repos.refreshToken.DeleteExpired(); err != nil {
				logger.Log.Error("refresh token cleanup error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 排行榜缓存可降级，Redis 不可用时只记录
		logger.Log.Warn("Redis unavailable, leaderboard cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("educonnect-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(repos)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
