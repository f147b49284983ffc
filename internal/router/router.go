package router

import (
	"bloghub/internal/config"
	"bloghub/internal/handlers"
	"bloghub/internal/middleware"
	"bloghub/internal/services"
	"bloghub/internal/validation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes wires the full HTTP surface onto the engine. The shared
// dependencies are built once here and handed to the handler constructors.
func RegisterRoutes(r *gin.Engine, conn *gorm.DB, cfg *config.Config, images *services.ImageService) {
	validate := validation.New()
	mail := services.NewMailService(cfg)

	authHandler := handlers.NewAuthHandler(conn, cfg, mail, validate)
	postHandler := handlers.NewPostHandler(conn, images, validate)
	commentHandler := handlers.NewCommentHandler(conn, validate)
	userHandler := handlers.NewUserHandler(conn, validate)

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)

	r.GET("/health", handlers.Health(conn))

	// Uploaded post images are served as plain static files.
	r.Static("/uploads", cfg.UploadDir)

	// Google OAuth entry points live outside /api, mirroring the
	// provider callback registration.
	r.GET("/auth/google", authHandler.GoogleLogin)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	blog := api.Group("/blog")
	{
		// Public reads, published posts only. The detail read resolves
		// an identity when offered so it can report liked/favorited.
		blog.GET("", postHandler.List)
		blog.GET("/:id", middleware.OptionalAuth(cfg.JWTSecret), postHandler.Get)

		authed := blog.Group("", requireAuth)
		{
			authed.POST("", postHandler.Create)
			authed.PUT("/:id", postHandler.Update)
			authed.DELETE("/:id", postHandler.Delete)
			authed.POST("/:id/like", postHandler.Like)
			authed.POST("/:id/favorite", postHandler.Favorite)

			authed.GET("/:id/comment", commentHandler.List)
			authed.POST("/:id/comment", commentHandler.Create)
			authed.PUT("/:id/comment/:commentId", commentHandler.Update)
			authed.DELETE("/:id/comment/:commentId", commentHandler.Delete)
			authed.POST("/:id/comment/:commentId/like", commentHandler.Like)
		}
	}

	user := api.Group("/user", requireAuth)
	{
		user.GET("", userHandler.Profile)
		user.PUT("/:id", userHandler.Update)
		user.GET("/favorite", userHandler.Favorites)
		user.GET("/all", middleware.RequireAdmin(), userHandler.All)
	}
}
