package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"orderdesk/internal/config"
	"orderdesk/internal/handler"
	"orderdesk/internal/logger"
	"orderdesk/internal/middleware"
	"orderdesk/internal/repository"
	"orderdesk/internal/service"
	"orderdesk/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Env: "development"}).Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if envErr != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("failed to auto-migrate database")
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationHours)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, cfg.App.InitialOwnerEmail)
	personnelService := service.NewPersonnelService(userRepo)
	orderService := service.NewOrderService(orderRepo)
	reportService := service.NewReportService(orderRepo)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(personnelService)
	orderHandler := handler.NewOrderHandler(orderService)
	reportHandler := handler.NewReportHandler(reportService)

	// --- Setup Gin Router ---
	if cfg.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log.Zerolog()))

	// Simple CORS middleware; the mobile client calls from any origin
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	ownerMW := middleware.OwnerMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api")
	authHandler.RegisterAuthRoutes(apiGroup)
	orderHandler.RegisterOrderRoutes(apiGroup, jwtAuthMW)
	userHandler.RegisterUserRoutes(apiGroup, jwtAuthMW, ownerMW)
	reportHandler.RegisterReportRoutes(apiGroup, jwtAuthMW)

	router.GET("/health", handler.Health(dbPool))

	// --- Start Server ---
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	stop()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
