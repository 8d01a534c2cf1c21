package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sumeshhesums/ml-deployment-platform/internal/config"
	"github.com/sumeshhesums/ml-deployment-platform/internal/delivery/http/controllers"
	adminctl "github.com/sumeshhesums/ml-deployment-platform/internal/delivery/http/controllers/admin"
	authctl "github.com/sumeshhesums/ml-deployment-platform/internal/delivery/http/controllers/auth"
	modelctl "github.com/sumeshhesums/ml-deployment-platform/internal/delivery/http/controllers/model"
	"github.com/sumeshhesums/ml-deployment-platform/internal/delivery/http/controllers/middleware"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

func InitRoutes(l logger.Log, cfg *config.Config, u service.Collection) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsConfig))

	middleware.InitMetrics()
	r.Use(middleware.MetricsMiddleware())
	r.GET("/metrics", middleware.MetricsHandler())

	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute)
	r.Use(limiter.Handler())

	statusController := controllers.NewStatusHandler()
	authController := authctl.NewAuthHandler(l, u.AuthService, u.Audit)
	registryController := modelctl.NewRegistryHandler(l, u.RegistryService, u.Audit)
	predictController := modelctl.NewPredictHandler(l, u.PredictService, u.Audit)
	adminController := adminctl.NewAdminHandler(l, u.AdminService, u.Audit)

	authGuard := middleware.NewAuthMiddlewareProvider(l, u.AuthService)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.POST("/refresh", authController.Refresh)
			auth.GET("/me", authGuard.AuthMiddleware, authController.Me)
		}

		models := v1.Group("/models", authGuard.AuthMiddleware)
		{
			models.POST("/upload", registryController.Upload)
			models.GET("", registryController.List)
			models.GET("/search", registryController.Search)
			models.GET("/:model_id", registryController.Get)
			models.GET("/:model_id/download", registryController.Download)
			models.PUT("/:model_id", registryController.Update)
			models.DELETE("/:model_id", registryController.Delete)
			models.GET("/:model_id/stats", registryController.Stats)
			models.GET("/:model_id/history", registryController.History)
			models.POST("/:model_id/predict", predictController.Predict)
		}

		admin := v1.Group("/admin", authGuard.AuthMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/users", adminController.ListUsers)
			admin.POST("/users/:user_id/toggle", adminController.ToggleUserActive)
			admin.GET("/stats", adminController.SystemStats)
			admin.GET("/analytics", adminController.Analytics)
			admin.GET("/audit-logs", adminController.AuditLogs)
		}
	}
	return r
}
