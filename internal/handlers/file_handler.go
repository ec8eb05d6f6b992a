package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"document-fill-backend/internal/models"
	"document-fill-backend/internal/repository"
	"document-fill-backend/internal/services/tabular"
	"document-fill-backend/internal/storage"
)

type FileHandler struct {
	files *repository.FileRepository
	store *storage.Storage
}

func NewFileHandler(files *repository.FileRepository, store *storage.Storage) *FileHandler {
	return &FileHandler{files: files, store: store}
}

// Upload stores a tabular data file and records its detected columns
// and row count.
func (h *FileHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	path, err := h.store.SaveUpload(header.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows, columns, err := tabular.ParseFile(path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rawColumns, err := json.Marshal(columns)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dataFile := &models.DataFile{
		ID:           uuid.New(),
		OriginalName: header.Filename,
		FilePath:     path,
		Columns:      rawColumns,
		RowCount:     len(rows),
		CreatedAt:    time.Now(),
	}
	if err := h.files.Create(dataFile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file": dataFile})
}

func (h *FileHandler) List(c *gin.Context) {
	files, err := h.files.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *FileHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file ID"})
		return
	}

	dataFile, err := h.files.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": dataFile})
}
