package app

import (
	"context"
	"edulearn_backend/internal/config"
	"edulearn_backend/internal/controller"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/service"
	"edulearn_backend/pkg/configwatcher"
	"edulearn_backend/pkg/database"
	"edulearn_backend/pkg/logger"
	"edulearn_backend/pkg/monitoring"
	"edulearn_backend/pkg/security"
	"edulearn_backend/pkg/tracing"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	gate            *service.AuthGate
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	// 关闭后台任务（限流清理、配置监听）
	done   chan struct{}
	cancel context.CancelFunc
}

type repositories struct {
	user           *repository.UserRepository
	session        *repository.SessionRepository
	paper          *repository.PaperRepository
	generatedPaper *repository.GeneratedPaperRepository
	result         *repository.ResultRepository
	notification   *repository.NotificationRepository
	doubt          *repository.DoubtRepository
	progressCache  *repository.ProgressCache
}

type services struct {
	auth           *service.AuthService
	paper          *service.PaperService
	generatedPaper *service.GeneratedPaperService
	test           *service.TestService
	progress       *service.ProgressService
	notification   *service.NotificationService
	doubt          *service.DoubtService
	admin          *service.AdminService
}

type controllers struct {
	auth           *controller.AuthController
	paper          *controller.PaperController
	generatedPaper *controller.GeneratedPaperController
	test           *controller.TestController
	progress       *controller.ProgressController
	doubt          *controller.DoubtController
	notification   *controller.NotificationController
	admin          *controller.AdminController
	health         *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:           repository.NewUserRepository(db),
		session:        repository.NewSessionRepository(db),
		paper:          repository.NewPaperRepository(db),
		generatedPaper: repository.NewGeneratedPaperRepository(db),
		result:         repository.NewResultRepository(db),
		notification:   repository.NewNotificationRepository(db),
		doubt:          repository.NewDoubtRepository(db),
		progressCache:  repository.NewProgressCache(rdb, cfg.Redis.ProgressTTL),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	a.gate = service.NewAuthGate(repos.session, repos.user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	verifier := service.NewHTTPSessionVerifier(cfg.Session.VerifyURL)

	s.auth = service.NewAuthService(repos.user, repos.session, a.gate, verifier, cfg)
	s.paper = service.NewPaperService(repos.paper)
	s.generatedPaper = service.NewGeneratedPaperService(repos.generatedPaper, repos.paper)
	s.test = service.NewTestService(repos.paper, repos.result, repos.progressCache)
	s.progress = service.NewProgressService(repos.result, repos.progressCache)
	s.notification = service.NewNotificationService(repos.notification)
	s.doubt = service.NewDoubtService(repos.doubt, s.notification)
	s.admin = service.NewAdminService(repos.user, s.notification)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client, cfg *config.Config) *controllers {
	return &controllers{
		auth:           controller.NewAuthController(s.auth, cfg.Session.TTL, cfg.Server.Mode == gin.ReleaseMode),
		paper:          controller.NewPaperController(s.paper),
		generatedPaper: controller.NewGeneratedPaperController(s.generatedPaper),
		test:           controller.NewTestController(s.test),
		progress:       controller.NewProgressController(s.progress),
		doubt:          controller.NewDoubtController(s.doubt),
		notification:   controller.NewNotificationController(s.notification),
		admin:          controller.NewAdminController(s.admin),
		health:         controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	limiter := security.NewIPLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(limiter.Middleware(a.done))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startConfigWatcher 配置文件变更时依次执行已注册的回调
func (a *App) startConfigWatcher(ctx context.Context, configDir string) {
	path := filepath.Join(configDir, "config.yaml")
	err := configwatcher.WatchConfig(ctx, path, func(newCfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config watcher disabled", zap.String("path", path), zap.Error(err))
	}
}

// NewApp 按 日志 → 数据库 → Redis → 仓储 → 服务 → 控制器 → 路由 的顺序装配
func NewApp(cfg *config.Config, configDir string) (*App, error) {
	logger.InitLogger(cfg.Server.Mode)
	logger.Log.Info("Logger initialized successfully", zap.String("mode", cfg.Server.Mode))

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.ForceMigrate)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		database.CloseDB(db)
		return nil, fmt.Errorf("init redis: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		done:   make(chan struct{}),
		cancel: cancel,
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			// 追踪不可用不影响主流程
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	// 监控初始化
	monitoring.Init()

	repos := app.initRepositories(db, rdb, cfg)
	svcs := app.initServices(repos, cfg)
	ctrls := app.initControllers(svcs, db, rdb, cfg)

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
		logger.Log.Info("Log level updated", zap.String("level", logger.Level().String()))
	})
	app.startConfigWatcher(ctx, configDir)

	return app, nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
}

// Close 释放后台任务、追踪、Redis 与数据库连接池
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.done != nil {
		close(a.done)
		a.done = nil
	}

	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
		cancel()
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if err := database.CloseDB(a.DB); err != nil {
		logger.Log.Error("Failed to close database", zap.Error(err))
	}
}
