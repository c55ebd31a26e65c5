package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/queue"
	"library-backend/internal/infrastructure/storage"
	"library-backend/pkg/cache"
	"library-backend/pkg/jwt"

	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"

	categoryHandler "library-backend/internal/domains/category/handler"
	categoryRepo "library-backend/internal/domains/category/repository"
	categoryService "library-backend/internal/domains/category/service"

	userHandler "library-backend/internal/domains/user/handler"
	userRepo "library-backend/internal/domains/user/repository"
	userService "library-backend/internal/domains/user/service"

	memberHandler "library-backend/internal/domains/member/handler"
	memberRepo "library-backend/internal/domains/member/repository"
	memberService "library-backend/internal/domains/member/service"

	borrowingHandler "library-backend/internal/domains/borrowing/handler"
	borrowingRepo "library-backend/internal/domains/borrowing/repository"
	borrowingService "library-backend/internal/domains/borrowing/service"

	reportHandler "library-backend/internal/domains/report/handler"
	reportRepo "library-backend/internal/domains/report/repository"
	reportService "library-backend/internal/domains/report/service"
)

// Container holds every dependency of the API process.
//
// Initialization order:
// 1. Config
// 2. Infrastructure (DB, Redis, JWT, storage, queue)
// 3. Repositories
// 4. Services
// 5. Handlers
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisCache // nil when Redis is unreachable
	Cache      cache.Cache            // nil when Redis is unreachable
	JWTManager *jwt.Manager
	Storage    storage.FileStore
	LocalStore *storage.LocalStore // set for STORAGE_DRIVER=local, served under /uploads
	Queue      *queue.Client       // nil when Redis is unreachable

	// Repositories
	BookRepo      bookRepo.RepositoryInterface
	CategoryRepo  categoryRepo.Repository
	UserRepo      userRepo.Repository
	MemberRepo    memberRepo.Repository
	BorrowingRepo borrowingRepo.Repository
	ReportRepo    reportRepo.Repository

	// Services
	BookService      bookService.ServiceInterface
	CategoryService  categoryService.Service
	AuthService      userService.Service
	MemberService    memberService.Service
	BorrowingService borrowingService.Service
	ReportService    reportService.Service

	// Handlers
	BookHandler      *bookHandler.Handler
	CategoryHandler  *categoryHandler.CategoryHandler
	AuthHandler      *userHandler.AuthHandler
	MemberHandler    *memberHandler.MemberHandler
	BorrowingHandler *borrowingHandler.BorrowingHandler
	ReportHandler    *reportHandler.ReportHandler
}

// NewContainer builds the full dependency graph. Postgres is required;
// Redis is optional and only disables caching, login throttling and the job queue.
func NewContainer() (*Container, error) {
	log.Info().Msg("[CONTAINER] Initializing")
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("env", cfg.App.Environment).Msg("[CONTAINER] Config loaded")

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initRedis()

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	if err := c.initStorage(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("[CONTAINER] Initialized")
	return c, nil
}

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// one-time check of the fulltext index used by book search
	created, err := database.EnsureSearchIndex(ctx, db.Pool)
	if err != nil {
		log.Warn().Err(err).Msg("[CONTAINER] Could not verify fulltext index, search falls back to LIKE")
	} else if created {
		log.Info().Str("index", database.BookSearchIndex).Msg("[CONTAINER] Fulltext index created")
	}
	return nil
}

// initRedis is non-critical: on failure Cache and Queue stay nil
func (c *Container) initRedis() {
	cfg := c.Config.Redis
	redisCache := infraCache.NewRedisCache(cfg.Host, cfg.Password, cfg.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisCache.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("[CONTAINER] Redis unavailable (non-critical), running without cache and job queue")
		_ = redisCache.Close()
		return
	}

	c.Redis = redisCache
	c.Cache = redisCache
	c.Queue = queue.NewClient(cfg.Host, cfg.Password, cfg.DB)
}

func (c *Container) initStorage() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := storage.NewFromConfig(ctx, c.Config)
	if err != nil {
		return err
	}
	c.Storage = store
	if local, ok := store.(*storage.LocalStore); ok {
		c.LocalStore = local
	}
	log.Info().Str("driver", c.Config.Storage.Driver).Msg("[CONTAINER] File storage ready")
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.MemberRepo = memberRepo.NewPostgresRepository(pool)
	c.BorrowingRepo = borrowingRepo.NewPostgresRepository(pool)
	c.ReportRepo = reportRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.BookService = bookService.NewService(c.BookRepo, c.Cache)
	c.CategoryService = categoryService.NewService(c.CategoryRepo, c.BookService)

	c.AuthService = userService.NewAuthService(c.UserRepo, c.JWTManager, c.Cache, userService.Throttle{
		MaxFailures: c.Config.Auth.MaxFailedLogins,
		Window:      c.Config.Auth.LockoutWindow,
	})

	// a nil *queue.Client must not reach the interface
	var jobs memberService.PictureJobs
	if c.Queue != nil {
		jobs = c.Queue
	}
	c.MemberService = memberService.NewService(c.MemberRepo, c.Storage, storage.NewImageProcessor(), jobs)

	c.BorrowingService = borrowingService.NewService(c.BorrowingRepo)
	c.ReportService = reportService.NewService(c.ReportRepo, c.BorrowingService)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.AuthHandler = userHandler.NewAuthHandler(c.AuthService)
	c.MemberHandler = memberHandler.NewMemberHandler(c.MemberService)
	c.BorrowingHandler = borrowingHandler.NewBorrowingHandler(c.BorrowingService)
	c.ReportHandler = reportHandler.NewReportHandler(c.ReportService)
}

// Cleanup releases connections; called on shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("[CONTAINER] Cleaning up")

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] Failed to close queue client")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] Failed to close Redis")
		}
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
