package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-biodata-backend/config"
	_ "go-biodata-backend/docs" // Important for Swagger
	"go-biodata-backend/internal/delivery/http/middleware"
	v1 "go-biodata-backend/internal/delivery/http/v1"
	"go-biodata-backend/internal/domain"
	"go-biodata-backend/internal/repository/memory"
	"go-biodata-backend/internal/repository/postgres"
	"go-biodata-backend/internal/usecase"
	"go-biodata-backend/pkg/auth"
	"go-biodata-backend/pkg/database"
	"go-biodata-backend/pkg/logger"
	redisclient "go-biodata-backend/pkg/redis"
	"go-biodata-backend/pkg/security"
	"go-biodata-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Applicant Biodata API
// @version         1.0
// @description     Record-owner service for applicant biodata.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting biodata backend", "port", cfg.Port, "storage", cfg.StorageDriver)

	secLogger := security.InitSecurityLogger("biodata-backend", cfg.Env)
	defer secLogger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		logger.Log.Error("Failed to init token service", "error", err)
		os.Exit(1)
	}

	// 3. Setup Storage
	var (
		userRepo      domain.UserRepository
		applicantRepo domain.ApplicantRepository
		pinger        usecase.Pinger
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Log.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		seedDemoUsers(store, tokens, cfg)
		userRepo = store.Users()
		applicantRepo = store.Applicants()
	case config.StorageDriverPostgres:
		if cfg.MigrationsAuto {
			if err := database.Migrate(cfg.DBUrl, database.Up); err != nil {
				logger.Log.Error("Failed to apply migrations", "error", err)
				os.Exit(1)
			}
			logger.Log.Info("Migrations applied")
		}

		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		userRepo = postgres.NewUserRepository(dbPool)
		applicantRepo = postgres.NewApplicantRepository(dbPool)
		pinger = dbPool
	default:
		logger.Log.Error("Unknown storage driver", "driver", cfg.StorageDriver)
		os.Exit(1)
	}

	// 4. Setup Rate Limit Store
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redisclient.NewClient(ctx, redisclient.Config{
			URL:      cfg.RedisURL,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting uses in-memory fallback", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	limiter := middleware.NewRateLimiter(ctx, redisClient, middleware.DefaultRateLimitConfig(
		cfg.RateLimitGlobalThreshold,
		time.Duration(cfg.RateLimitWindowSeconds)*time.Second,
	))

	// 5. Setup UseCases
	policy := usecase.NewAccessPolicy(userRepo)
	applicantUC := usecase.NewApplicantUsecase(applicantRepo, policy, validation.New())
	healthUC := usecase.NewHealthUsecase(pinger)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ApplicantUC:  applicantUC,
		AccessPolicy: policy,
		HealthUC:     healthUC,
		Tokens:       tokens,
		RateLimiter:  limiter,
		Config:       cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// seedDemoUsers makes the in-memory backend usable without an account service.
func seedDemoUsers(store *memory.Store, tokens *auth.TokenService, cfg *config.Config) {
	demo := []domain.User{
		{ID: 1, Username: "admin", Email: "admin@localhost", Role: domain.RoleAdmin},
		{ID: 2, Username: "applicant", Email: "applicant@localhost", Role: domain.RoleStandard},
	}
	for _, user := range demo {
		store.PutUser(user)
		if cfg.IsProduction() {
			continue
		}
		token, err := tokens.Issue(auth.Identity{ID: user.ID, Username: user.Username, Email: user.Email})
		if err != nil {
			logger.Log.Error("Failed to issue demo token", "user_id", user.ID, "error", err)
			continue
		}
		logger.Log.Info("Demo user ready", "user_id", user.ID, "role", user.Role, "token", token)
	}
}
