package v1

import (
	"go-biodata-backend/config"
	"go-biodata-backend/internal/delivery/http/middleware"
	"go-biodata-backend/internal/domain"
	"go-biodata-backend/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ApplicantUC  domain.ApplicantUsecase
	AccessPolicy domain.AccessPolicy
	HealthUC     usecase.HealthUsecase
	Tokens       middleware.TokenVerifier
	RateLimiter  *middleware.RateLimiter // optional
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.CORSAllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler())
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware())
	}

	api := r.Group("/api")

	// Public routes
	NewHealthHandler(api, deps.HealthUC)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		NewApplicantHandler(protected, deps.ApplicantUC, deps.AccessPolicy)
	}

	return r
}
