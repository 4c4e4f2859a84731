/*
 * @Description: 应用装配：配置、存储、缓存、服务、路由与后台任务
 * @Author: 安知鱼
 * @Date: 2025-10-17 10:35:28
 * @LastEditTime: 2026-09-27 11:40:16
 * @LastEditors: 安知鱼
 */
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/predelnews/predelnews-app/internal/app/bootstrap"
	"github.com/predelnews/predelnews-app/internal/app/listener"
	"github.com/predelnews/predelnews-app/internal/app/middleware"
	"github.com/predelnews/predelnews-app/internal/app/task"
	"github.com/predelnews/predelnews-app/internal/infra/persistence/database"
	"github.com/predelnews/predelnews-app/internal/infra/persistence/memory"
	"github.com/predelnews/predelnews-app/internal/infra/persistence/sqlstore"
	"github.com/predelnews/predelnews-app/internal/infra/router"
	"github.com/predelnews/predelnews-app/internal/pkg/event"
	"github.com/predelnews/predelnews-app/internal/pkg/logger"
	"github.com/predelnews/predelnews-app/internal/pkg/utils"
	"github.com/predelnews/predelnews-app/internal/pkg/version"
	"github.com/predelnews/predelnews-app/pkg/config"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
	article_handler "github.com/predelnews/predelnews-app/pkg/handler/article"
	search_handler "github.com/predelnews/predelnews-app/pkg/handler/search"
	taxonomy_handler "github.com/predelnews/predelnews-app/pkg/handler/taxonomy"
	version_handler "github.com/predelnews/predelnews-app/pkg/handler/version"
	"github.com/predelnews/predelnews-app/pkg/idgen"
	article_service "github.com/predelnews/predelnews-app/pkg/service/article"
	"github.com/predelnews/predelnews-app/pkg/service/search"
	"github.com/predelnews/predelnews-app/pkg/service/slug"
	"github.com/predelnews/predelnews-app/pkg/service/taxonomy"
	"github.com/predelnews/predelnews-app/pkg/service/utility"
)

const (
	defaultPort     = "8091"
	defaultPageSize = 20
	shutdownTimeout = 10 * time.Second
)

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg           *config.Config
	engine        *gin.Engine
	logger        *logger.Logger
	taskBroker    *task.Broker
	searchLimiter *middleware.IPRateLimiter
	sqlDB         *sql.DB
	redisClient   *redis.Client
	cacheSvc      utility.CacheService
	eventBus      *event.EventBus
	repos         repository.Repositories
	articleSvc    article_service.Service
	taxonomySvc   taxonomy.Service
}

func (a *App) PrintBanner() {
	log.Println("--------------------------------------------------------")
	log.Printf(" Predel News - Version: %s", version.GetVersionString())
	log.Printf(" 缓存: %s", utility.GetCacheServiceType(a.cacheSvc))
	log.Println("--------------------------------------------------------")
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作。
// 返回的 cleanup 关闭数据库、Redis 与日志文件，应在 Stop 之后调用。
func NewApp(cfg *config.Config) (*App, func(), error) {
	ctx := context.Background()

	// --- Phase 1: 日志与运行模式 ---
	lg, err := logger.Setup(logger.Options{
		File:       cfg.GetString(config.KeyLogFile),
		MaxSizeMB:  cfg.GetInt(config.KeyLogMaxSizeMB),
		MaxBackups: cfg.GetInt(config.KeyLogMaxBackups),
		MaxAgeDays: cfg.GetInt(config.KeyLogMaxAgeDays),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	if cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.DebugMode)
		log.Println("运行模式: Debug (Gin 将打印详细路由日志)")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("运行模式: Release (Gin 启动日志已禁用)")
	}

	if err := idgen.InitSqidsEncoderWithSeed(cfg.GetString(config.KeyIDSeed)); err != nil {
		lg.Close()
		return nil, nil, fmt.Errorf("初始化 ID 编码器失败: %w", err)
	}
	log.Println("✅ ID 编码器初始化成功")

	// --- Phase 2: 初始化基础设施 ---
	repos, sqlDB, err := openRepositories(ctx, cfg)
	if err != nil {
		lg.Close()
		return nil, nil, err
	}

	// 尝试连接 Redis（如果失败，将自动降级到内存缓存）
	redisClient, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			sqlDB.Close()
		}
		lg.Close()
		return nil, nil, fmt.Errorf("redis 初始化失败: %w", err)
	}
	cacheSvc := utility.NewCacheServiceWithFallback(ctx, redisClient)

	cleanup := func() {
		utility.StopCacheService(cacheSvc)
		if redisClient != nil {
			log.Println("关闭 Redis 连接...")
			redisClient.Close()
		}
		if sqlDB != nil {
			log.Println("执行清理操作：关闭数据库连接...")
			sqlDB.Close()
		}
		lg.Close()
	}

	// --- Phase 3: 初始化分类法数据 ---
	slugGen := slug.NewGenerator(slug.WithMaxAttempts(cfg.GetInt(config.KeySlugMaxAttempts)))

	seed, err := bootstrap.LoadSeed(cfg.GetString(config.KeySeedFile))
	if err != nil {
		return nil, cleanup, err
	}
	if err := bootstrap.NewBootstrapper(repos, slugGen).SeedTaxonomy(ctx, seed); err != nil {
		return nil, cleanup, fmt.Errorf("分类法初始化失败: %w", err)
	}

	// --- Phase 4: 初始化业务逻辑层 ---
	eventBus := event.NewEventBus()
	articleSvc := article_service.NewService(repos, cacheSvc,
		article_service.WithSlugGenerator(slugGen),
		article_service.WithEventBus(eventBus),
	)
	taxonomySvc := taxonomy.NewService(repos, cacheSvc, eventBus, slugGen)
	pageSize := cfg.GetIntDefault(config.KeySearchPageSize, defaultPageSize)
	searchSvc := search.NewSearchService(repos.Article, cacheSvc, search.WithPageSize(pageSize))
	listener.NewCacheInvalidationListener(eventBus, cacheSvc)

	taskBroker := task.NewBroker(lg.Slog("task_broker"), repos.Article, cacheSvc, taxonomySvc, articleSvc)

	// --- Phase 5: 初始化接口层 ---
	secret, err := jwtSecret(cfg)
	if err != nil {
		eventBus.Shutdown()
		return nil, cleanup, err
	}
	mw := middleware.NewMiddleware(secret)
	searchLimiter := middleware.NewIPRateLimiter(middleware.SearchRequestsPerMinute, middleware.SearchBurst)

	appRouter := router.NewRouter(
		article_handler.NewHandler(articleSvc),
		taxonomy_handler.NewHandler(taxonomySvc),
		search_handler.NewHandler(searchSvc, pageSize),
		version_handler.NewHandler(),
		mw,
		searchLimiter,
	)

	// --- Phase 6: 配置 Gin 引擎 ---
	engine := gin.New()
	engine.Use(gin.LoggerWithWriter(lg.Writer()), gin.RecoveryWithWriter(lg.Writer()))
	if err := engine.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}); err != nil {
		eventBus.Shutdown()
		searchLimiter.Stop()
		return nil, cleanup, fmt.Errorf("设置信任代理失败: %w", err)
	}
	engine.ForwardedByClientIP = true
	engine.Use(middleware.Cors())
	appRouter.Setup(engine)

	app := &App{
		cfg:           cfg,
		engine:        engine,
		logger:        lg,
		taskBroker:    taskBroker,
		searchLimiter: searchLimiter,
		sqlDB:         sqlDB,
		redisClient:   redisClient,
		cacheSvc:      cacheSvc,
		eventBus:      eventBus,
		repos:         repos,
		articleSvc:    articleSvc,
		taxonomySvc:   taxonomySvc,
	}
	return app, cleanup, nil
}

// openRepositories 按 Database.Type 创建仓储，memory 类型不连接数据库
func openRepositories(ctx context.Context, cfg *config.Config) (repository.Repositories, *sql.DB, error) {
	if strings.EqualFold(strings.TrimSpace(cfg.GetString(config.KeyDBType)), "memory") {
		log.Println("⚠️  Database.Type = memory，数据不会被持久化")
		return memory.NewRepositories(), nil, nil
	}

	sqlDB, dialect, err := database.NewSQLDB(cfg)
	if err != nil {
		return repository.Repositories{}, nil, fmt.Errorf("创建数据库连接池失败: %w", err)
	}
	if err := database.NewMigrationService(sqlDB, dialect).RunMigrations(ctx); err != nil {
		sqlDB.Close()
		return repository.Repositories{}, nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return sqlstore.NewRepositories(sqlDB, dialect), sqlDB, nil
}

// jwtSecret 未配置 System.JWTSecret 时生成临时密钥，重启后已签发的令牌失效
func jwtSecret(cfg *config.Config) ([]byte, error) {
	if secret := strings.TrimSpace(cfg.GetString(config.KeyJWTSecret)); secret != "" {
		return []byte(secret), nil
	}
	secret, err := utils.GenerateRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("生成 JWT 密钥失败: %w", err)
	}
	log.Println("⚠️  未配置 System.JWTSecret，已生成临时密钥，重启后令牌将失效")
	return []byte(secret), nil
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

// Run 启动后台任务并监听端口，ctx 结束时优雅关闭 HTTP 服务
func (a *App) Run(ctx context.Context) error {
	if err := a.taskBroker.RegisterCronJobs(); err != nil {
		return err
	}
	a.taskBroker.Start()
	a.taskBroker.DispatchCacheWarmup()

	port := strings.TrimSpace(a.cfg.GetString(config.KeyServerPort))
	if port == "" {
		port = defaultPort
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("应用程序启动成功，正在监听端口: %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("🔄 收到退出信号，正在关闭 HTTP 服务...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Stop 停止后台任务与事件总线
func (a *App) Stop() {
	if a.taskBroker != nil {
		a.taskBroker.Stop()
		log.Println("任务调度器已停止。")
	}
	if a.searchLimiter != nil {
		a.searchLimiter.Stop()
	}
	if a.eventBus != nil {
		a.eventBus.Shutdown()
	}
}
