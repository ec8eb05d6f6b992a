package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the postgres connection from DATABASE_URL, or from the
// individual DB_* variables when it is unset.
func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			envOr("DB_HOST", "localhost"),
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_NAME", "document_fill"),
			envOr("DB_PORT", "5432"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	return db
}

// UploadDir is where uploaded data files and templates are stored.
func UploadDir() string {
	return envOr("UPLOAD_DIR", "./data/uploads")
}

// OutputDir is where generated batch outputs are stored.
func OutputDir() string {
	return envOr("OUTPUT_DIR", "./data/outputs")
}

// ServerAddr is the listen address for the HTTP server.
func ServerAddr() string {
	return envOr("SERVER_ADDR", ":8080")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
