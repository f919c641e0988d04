package api

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"househunt/api/internal/api/handlers"
	"househunt/api/internal/api/middleware"
	"househunt/api/internal/config"
	"househunt/api/internal/services"
	"househunt/api/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, taskClient handlers.IAsynqClient) *gin.Engine {
	userService := services.NewUserService(db, cfg)
	propertyService := services.NewPropertyService(db, cfg)
	inquiryService := services.NewInquiryService(db, cfg)
	reviewService := services.NewReviewService(db, cfg)

	s3Storage, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to initialize S3 storage for API: %v", err)
	}

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

	r.Use(cors.New(corsCfg))
	r.Use(rateLimiter.Limit())

	authHandler := handlers.NewAuthHandler(userService, cfg)
	propertyHandler := handlers.NewPropertyHandler(propertyService, userService, s3Storage)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService, taskClient)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	userHandler := handlers.NewUserHandler(userService)

	authenticated := middleware.AuthMiddleware(cfg.JwtSecret, userService)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authenticated, authHandler.Me)
			authGroup.PUT("/profile", authenticated, authHandler.UpdateProfile)
			authGroup.PUT("/change-password", authenticated, authHandler.ChangePassword)
		}

		propertiesGroup := apiGroup.Group("/properties")
		{
			propertiesGroup.GET("", propertyHandler.List)
			propertiesGroup.GET("/:id", propertyHandler.Get)
			propertiesGroup.GET("/owner/:ownerId", propertyHandler.ListByOwner)
			propertiesGroup.POST("", authenticated, propertyHandler.Create)
			propertiesGroup.PUT("/:id", authenticated, propertyHandler.Update)
			propertiesGroup.DELETE("/:id", authenticated, propertyHandler.Delete)
			propertiesGroup.POST("/:id/favorite", authenticated, propertyHandler.ToggleFavorite)
			propertiesGroup.POST("/:id/images", authenticated, propertyHandler.AddImage)
			propertiesGroup.POST("/:id/images/upload-url", authenticated, propertyHandler.ImageUploadURL)
		}

		inquiriesGroup := apiGroup.Group("/inquiries")
		inquiriesGroup.Use(authenticated)
		{
			inquiriesGroup.POST("", inquiryHandler.Create)
			inquiriesGroup.GET("/my-inquiries", inquiryHandler.MyInquiries)
			inquiriesGroup.GET("/received", inquiryHandler.Received)
			inquiriesGroup.PUT("/:id/status", inquiryHandler.UpdateStatus)
			inquiriesGroup.PUT("/:id/respond", inquiryHandler.Respond)
			inquiriesGroup.PUT("/:id/schedule-viewing", inquiryHandler.ScheduleViewing)
		}

		reviewsGroup := apiGroup.Group("/reviews")
		{
			reviewsGroup.GET("", reviewHandler.List)
			reviewsGroup.POST("", authenticated, reviewHandler.Create)
			reviewsGroup.PUT("/:id", authenticated, reviewHandler.Update)
			reviewsGroup.DELETE("/:id", authenticated, reviewHandler.Delete)
			reviewsGroup.POST("/:id/helpful", authenticated, reviewHandler.ToggleHelpful)
			reviewsGroup.POST("/:id/respond", authenticated, reviewHandler.Respond)
		}

		usersGroup := apiGroup.Group("/users")
		usersGroup.Use(authenticated)
		{
			usersGroup.GET("", middleware.AdminMiddleware(), userHandler.List)
			usersGroup.GET("/:id", userHandler.Get)
			usersGroup.PUT("/:id/status", middleware.AdminMiddleware(), userHandler.UpdateStatus)
			usersGroup.GET("/:id/stats", userHandler.Stats)
			usersGroup.DELETE("/:id", userHandler.Delete)
		}
	}

	return r
}
