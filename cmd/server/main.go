package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simagis-server/internal/config"
	"simagis-server/internal/database"
	"simagis-server/internal/events"
	"simagis-server/internal/handler"
	"simagis-server/internal/middleware"
	"simagis-server/internal/models"
	"simagis-server/internal/repository"
	"simagis-server/internal/service"
	"simagis-server/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	log.Println("Configuration loaded successfully")

	// 2. Initialize JWT utilities with config
	utils.InitJWT(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// 3. Initialize database connection and schema
	db := database.Connect(cfg)
	database.Migrate(db)

	// 4. Optional redis client for rate limiting
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("Warning: redis unreachable, rate limiting falls back to in-process counters: %v", err)
			rdb = nil
		}
		pingCancel()
	}

	// 5. Optional event publisher
	publisher := events.NewPublisher(cfg.Events.URL, cfg.Events.Queue)

	// 6. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// 7. Initialize services
	authService := service.NewAuthService(userRepo, userRepo, auditRepo, publisher)
	userService := service.NewUserService(userRepo, auditRepo, publisher)
	bankService := service.NewBankService(db, auditRepo, publisher)
	accountNumberService := service.NewAccountNumberService(db, auditRepo, publisher)
	branchService := service.NewBranchService(db, auditRepo, publisher)
	colorService := service.NewColorService(db, auditRepo, publisher)
	phoneService := service.NewPhoneService(db, auditRepo, publisher)
	reimbursementTypeService := service.NewReimbursementTypeService(db, auditRepo, publisher)
	cekGiroFailStatusService := service.NewCekGiroFailStatusService(db, auditRepo, publisher)
	userPermissionService := service.NewUserPermissionService(db, auditRepo, publisher)
	cleanupService := service.NewCleanupService(authService, 24*time.Hour)

	// 8. Start token cleanup worker in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleanupService.Start(ctx)

	// 9. Setup Gin mode and router
	gin.SetMode(cfg.Server.GinMode)
	r := gin.Default()
	r.Use(middleware.CORS(cfg))

	// 10. Register handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	bankHandler := handler.NewCrudHandler(bankService)
	accountNumberHandler := handler.NewCrudHandler(accountNumberService)
	branchHandler := handler.NewCrudHandler(branchService)
	colorHandler := handler.NewCrudHandler(colorService)
	phoneHandler := handler.NewCrudHandler(phoneService)
	reimbursementTypeHandler := handler.NewCrudHandler(reimbursementTypeService)
	cekGiroFailStatusHandler := handler.NewCrudHandler(cekGiroFailStatusService)
	userPermissionHandler := handler.NewCrudHandler(userPermissionService)

	// 11. Define routes
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "simagis-server",
		})
	})

	api := r.Group("/api")

	// Rate limiting runs after authentication on protected groups so
	// counters are per user; public auth routes are counted per client IP.
	limit := func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.Enabled {
		limit = middleware.NewRateLimiter(rdb, cfg.RateLimit).Middleware()
	}

	// Auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", limit, authHandler.Register)
		auth.POST("/login", limit, authHandler.Login)
		auth.POST("/refresh", limit, authHandler.Refresh)

		session := auth.Group("", middleware.AuthMiddleware(), limit)
		{
			session.POST("/logout", authHandler.Logout)
			session.POST("/change-password", authHandler.ChangePassword)
			session.POST("/revoke-all", authHandler.RevokeAll)
			session.GET("/me", authHandler.Me)
			session.GET("/validate", authHandler.Validate)
			session.PUT("/profile", userHandler.UpdateProfile)
		}
	}

	// Reference-data routes: reads for any authenticated user, writes for
	// administrators only
	writeGuard := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(), limit)
	{
		bankHandler.Register(protected.Group("/banks"), writeGuard)
		accountNumberHandler.Register(protected.Group("/account-numbers"), writeGuard)
		branchHandler.Register(protected.Group("/branches"), writeGuard)
		colorHandler.Register(protected.Group("/colors"), writeGuard)
		phoneHandler.Register(protected.Group("/phones"), writeGuard)
		reimbursementTypeHandler.Register(protected.Group("/reimbursement-types"), writeGuard)
		cekGiroFailStatusHandler.Register(protected.Group("/cek-giro-fail-statuses"), writeGuard)
		userPermissionHandler.Register(protected.Group("/user-permissions"), writeGuard)

		// User administration
		users := protected.Group("/users")
		{
			users.GET("", userHandler.List)
			users.GET("/stats", userHandler.Stats)
			users.GET("/code/:code", userHandler.GetByCode)
			users.GET("/:id", userHandler.GetByID)
			users.POST("", writeGuard, userHandler.Create)
			users.PUT("/:id", writeGuard, userHandler.Update)
			users.DELETE("/:id", writeGuard, userHandler.Delete)
		}
	}

	// 12. Setup graceful shutdown
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := r.Run(":" + cfg.Server.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel background worker context
	cancel()
	log.Println("Server exited")
}
