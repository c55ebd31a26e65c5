package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared"
	"library-backend/internal/shared/middleware"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(c.Config.App.CORSOrigins),
	)

	if c.LocalStore != nil {
		router.Static(c.LocalStore.PublicURL(), c.LocalStore.Root())
	}

	auth := middleware.Authenticate(c.JWTManager)

	v1 := router.Group("/api/v1")
	{
		var redis pinger
		if c.Cache != nil {
			redis = c.Cache
		}
		v1.GET("/health", healthCheckHandler(c.Config.App.Version, c.DB, redis))
		v1.GET("/metrics", gin.WrapH(promhttp.Handler()))

		setupAuthRoutes(v1, c, auth)
		setupPublicBookRoutes(v1, c)
		setupBookRoutes(v1, c, auth)
		setupCategoryRoutes(v1, c, auth)
		setupMemberRoutes(v1, c, auth)
		setupBorrowingRoutes(v1, c, auth)
		setupReportRoutes(v1, c, auth)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	group := v1.Group("/auth")
	{
		group.POST("/login", c.AuthHandler.Login)
		group.GET("/me", auth, c.AuthHandler.Me)
	}
}

func setupPublicBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	public := v1.Group("/public/books")
	{
		public.GET("", c.BookHandler.ListPublicBooks)
		public.GET("/search", c.BookHandler.SearchBooks)
		public.GET("/filters", c.BookHandler.GetFilterOptions)
		public.GET("/:id", c.BookHandler.GetBook)
	}
}

func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	books := v1.Group("/books")
	books.Use(auth, middleware.Authorize(shared.RoleAdmin))
	{
		books.GET("", c.BookHandler.ListBooks)
		books.POST("", c.BookHandler.CreateBook)
		books.GET("/search", c.BookHandler.SearchBooks)
		books.GET("/filters", c.BookHandler.GetFilterOptions)
		books.GET("/:id", c.BookHandler.GetBook)
		books.PUT("/:id", c.BookHandler.UpdateBook)
		books.DELETE("/:id", c.BookHandler.DeleteBook)
	}
}

func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	categories := v1.Group("/categories")
	categories.Use(auth, middleware.Authorize(shared.RoleAdmin))
	{
		categories.GET("", c.CategoryHandler.List)
		categories.POST("", c.CategoryHandler.Create)
		categories.PUT("/:id", c.CategoryHandler.Rename)
		categories.DELETE("/:id", c.CategoryHandler.Delete)
	}
}

func setupMemberRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	members := v1.Group("/members")
	members.Use(auth, middleware.Authorize(shared.RoleAdmin, shared.RolePetugas))
	{
		members.GET("", c.MemberHandler.List)
		members.GET("/filters", c.MemberHandler.FilterOptions)
		members.POST("", c.MemberHandler.Create)
		members.GET("/:id", c.MemberHandler.Get)
		members.PUT("/:id", c.MemberHandler.Update)
		members.DELETE("/:id", c.MemberHandler.Delete)
	}
}

func setupBorrowingRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	borrowings := v1.Group("/borrowings")
	borrowings.Use(auth)
	{
		admin := middleware.Authorize(shared.RoleAdmin)
		borrowings.GET("", admin, c.BorrowingHandler.List)
		borrowings.POST("", admin, c.BorrowingHandler.Create)
		borrowings.GET("/:id", admin, c.BorrowingHandler.Get)
		borrowings.PUT("/:id/status", admin, c.BorrowingHandler.UpdateStatus)
		borrowings.DELETE("/:id", admin, c.BorrowingHandler.Delete)

		borrowings.GET("/member/:memberId", middleware.Authorize(shared.RoleAnggota), c.BorrowingHandler.ListByMember)
	}
}

func setupReportRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	admin := middleware.Authorize(shared.RoleAdmin)

	reports := v1.Group("/reports")
	reports.Use(auth, admin)
	{
		reports.GET("/borrowings", c.ReportHandler.BorrowingReport)
		reports.GET("/borrowings/export", c.ReportHandler.ExportBorrowings)
	}

	v1.GET("/admin/dashboard", auth, admin, c.ReportHandler.Dashboard)
}

type dbHealth interface {
	HealthCheck(ctx context.Context) error
	Stats() (*database.PoolStats, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthCheckHandler reports dependency state; failure details go to the log only
func healthCheckHandler(version string, db dbHealth, redis pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
		}

		dbStatus := "ok"
		if err := db.HealthCheck(ctx); err != nil {
			log.Error().Err(err).Msg("[Health] Database check failed")
			dbStatus = "error"
			health["status"] = "degraded"
		} else if stats, err := db.Stats(); err == nil {
			health["pool"] = stats
		}

		redisStatus := "disconnected"
		if redis != nil {
			redisStatus = "ok"
			if err := redis.Ping(ctx); err != nil {
				log.Warn().Err(err).Msg("[Health] Redis check failed")
				redisStatus = "error"
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
