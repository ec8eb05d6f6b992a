package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"document-fill-backend/internal/models"
	"document-fill-backend/internal/repository"
	"document-fill-backend/internal/services/placeholder"
	"document-fill-backend/internal/storage"
)

type TemplateHandler struct {
	templates *repository.TemplateRepository
	parser    *placeholder.Parser
	store     *storage.Storage
}

func NewTemplateHandler(templates *repository.TemplateRepository, parser *placeholder.Parser, store *storage.Storage) *TemplateHandler {
	return &TemplateHandler{templates: templates, parser: parser, store: store}
}

// Upload stores a template file and extracts its placeholders once, at
// creation. The placeholder list is never regenerated implicitly.
func (h *TemplateHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = header.Filename
	}

	path, err := h.store.SaveUpload(header.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	placeholders, err := h.parser.ExtractUniqueFromFile(path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := json.Marshal(dedupeFold(placeholders))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	template := &models.Template{
		ID:           uuid.New(),
		Name:         name,
		Description:  strings.TrimSpace(c.PostForm("description")),
		Placeholders: raw,
		FilePath:     path,
		CreatedAt:    time.Now(),
	}
	if err := h.templates.Create(template); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"template": template})
}

func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *TemplateHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template ID"})
		return
	}

	template, err := h.templates.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": template})
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template ID"})
		return
	}

	if err := h.templates.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "template deleted"})
}

// dedupeFold removes case-insensitive duplicates, keeping the first
// occurrence's casing.
func dedupeFold(placeholders []string) []string {
	seen := make(map[string]bool, len(placeholders))
	unique := make([]string, 0, len(placeholders))
	for _, ph := range placeholders {
		key := strings.ToLower(ph)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, ph)
		}
	}
	return unique
}
