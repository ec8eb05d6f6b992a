package main

import (
	"time"

	"document-fill-backend/internal/config"
	"document-fill-backend/internal/models"
	"document-fill-backend/internal/routes"
	"document-fill-backend/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on system env")
	}

	db := config.InitDB()

	db.AutoMigrate(
		&models.Template{},
		&models.DataFile{},
		&models.Mapping{},
		&models.Job{},
	)

	store, err := storage.NewStorage(config.UploadDir(), config.OutputDir())
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize storage")
	}

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, store, logrus.StandardLogger())

	r.Run(config.ServerAddr())
}
