package db

import (
	"fmt"
	"log"

	"bloghub/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and migrates the schema. The returned handle
// is built once at startup and injected into the handlers; nothing in the
// app reaches for a package-level connection.
func Open(dsn string) (*gorm.DB, error) {
	// TranslateError surfaces unique-index violations as
	// gorm.ErrDuplicatedKey, which the handlers map to 400 responses.
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")

	err = conn.AutoMigrate(
		&models.User{},
		&models.ResetToken{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.PostFavorite{},
		&models.CommentLike{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("Database migration completed")

	return conn, nil
}
