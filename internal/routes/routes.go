package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	handler "document-fill-backend/internal/handlers"
	"document-fill-backend/internal/repository"
	"document-fill-backend/internal/services/batch"
	"document-fill-backend/internal/services/fill"
	"document-fill-backend/internal/services/mapping"
	"document-fill-backend/internal/services/placeholder"
	"document-fill-backend/internal/storage"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, store *storage.Storage, log *logrus.Logger) {
	templateRepo := repository.NewTemplateRepository(db)
	fileRepo := repository.NewFileRepository(db)
	mappingRepo := repository.NewMappingRepository(db)
	jobRepo := repository.NewJobRepository(db)

	parser := placeholder.NewParser()
	validator := mapping.NewValidator()
	runner := batch.NewRunner(fileRepo, templateRepo, mappingRepo, jobRepo, store.OutputDir(), log)

	templateHandler := handler.NewTemplateHandler(templateRepo, parser, store)
	fileHandler := handler.NewFileHandler(fileRepo, store)
	mappingHandler := handler.NewMappingHandler(mappingRepo, templateRepo, fileRepo, validator)
	jobHandler := handler.NewJobHandler(jobRepo, runner, store, log)
	excelHandler := handler.NewExcelHandler(templateRepo, fileRepo, mappingRepo, fill.NewExcelFiller(), store)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	templates := api.Group("/templates")
	{
		templates.POST("/upload", templateHandler.Upload)
		templates.GET("", templateHandler.List)
		templates.GET("/:id", templateHandler.Get)
		templates.DELETE("/:id", templateHandler.Delete)
	}

	files := api.Group("/files")
	{
		files.POST("/upload", fileHandler.Upload)
		files.GET("", fileHandler.List)
		files.GET("/:id", fileHandler.Get)
	}

	mappings := api.Group("/mappings")
	{
		mappings.POST("", mappingHandler.Create)
		mappings.GET("/suggest", mappingHandler.Suggest)
		mappings.GET("/:id", mappingHandler.Get)
		mappings.PUT("/:id", mappingHandler.Update)
		mappings.POST("/:id/validate", mappingHandler.Validate)
	}

	jobs := api.Group("/jobs")
	{
		jobs.POST("", jobHandler.Create)
		jobs.GET("", jobHandler.List)
		jobs.GET("/:id", jobHandler.GetProgress)
		jobs.POST("/:id/run", jobHandler.Run)
		jobs.GET("/:id/outputs", jobHandler.ListOutputs)
		jobs.GET("/:id/outputs/:filename", jobHandler.DownloadOutput)
	}

	// Cell-mapping mode for XLSX templates; separate-file outputs are
	// downloadable through the same output routes as job outputs.
	api.POST("/excel/fill", excelHandler.Fill)
	api.GET("/outputs/:id", jobHandler.ListOutputs)
	api.GET("/outputs/:id/:filename", jobHandler.DownloadOutput)
}
