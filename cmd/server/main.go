package main

import (
	"log"

	"bloghub/internal/config"
	"bloghub/internal/db"
	"bloghub/internal/router"
	"bloghub/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	images, err := services.NewImageService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	r := gin.Default()

	// Cookie session, used only to carry the OAuth state nonce across
	// the Google redirect. API auth itself is stateless JWT.
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("bloghub_session", store))

	router.RegisterRoutes(r, conn, cfg, images)

	log.Printf("BlogHub server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
