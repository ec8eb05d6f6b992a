package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"document-fill-backend/internal/models"
	"document-fill-backend/internal/repository"
	"document-fill-backend/internal/services/mapping"
)

type MappingHandler struct {
	mappings  *repository.MappingRepository
	templates *repository.TemplateRepository
	files     *repository.FileRepository
	validator *mapping.Validator
}

func NewMappingHandler(
	mappings *repository.MappingRepository,
	templates *repository.TemplateRepository,
	files *repository.FileRepository,
	validator *mapping.Validator,
) *MappingHandler {
	return &MappingHandler{mappings: mappings, templates: templates, files: files, validator: validator}
}

type mappingPayload struct {
	FileID         string                `json:"file_id"`
	TemplateID     string                `json:"template_id"`
	ColumnMappings []models.MappingEntry `json:"column_mappings"`
}

func (h *MappingHandler) Create(c *gin.Context) {
	var payload mappingPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	fileID, err := uuid.Parse(payload.FileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file ID"})
		return
	}
	templateID, err := uuid.Parse(payload.TemplateID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template ID"})
		return
	}

	// Mappings are only created once both parents exist.
	if _, err := h.files.GetByID(fileID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	if _, err := h.templates.GetByID(templateID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}

	m := &models.Mapping{
		ID:         uuid.New(),
		FileID:     fileID,
		TemplateID: templateID,
		CreatedAt:  time.Now(),
	}
	if err := m.SetEntries(payload.ColumnMappings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.mappings.Create(m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mapping": m})
}

// Update replaces the whole column mapping list. The mapping's id and
// parents never change.
func (h *MappingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mapping ID"})
		return
	}

	var payload struct {
		ColumnMappings []models.MappingEntry `json:"column_mappings"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	m, err := h.mappings.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mapping not found"})
		return
	}

	if err := m.SetEntries(payload.ColumnMappings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.mappings.UpdateColumnMappings(m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mapping": m})
}

func (h *MappingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mapping ID"})
		return
	}

	m, err := h.mappings.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mapping not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mapping": m})
}

// Validate checks a mapping against its template's placeholders and its
// data file's columns, returning every problem found in one report.
func (h *MappingHandler) Validate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mapping ID"})
		return
	}

	m, err := h.mappings.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mapping not found"})
		return
	}

	// A missing template is a validation finding, not a 404.
	template, err := h.templates.GetByID(m.TemplateID)
	if err != nil {
		template = nil
	}

	var columns []string
	if dataFile, err := h.files.GetByID(m.FileID); err == nil && len(dataFile.Columns) > 0 {
		if err := json.Unmarshal(dataFile.Columns, &columns); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.validator.Validate(m, template, columns); err != nil {
		var verr *mapping.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"valid":   false,
				"message": verr.Message,
				"errors":  verr.Errors,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// Suggest proposes column -> placeholder pairs by fuzzy name matching.
func (h *MappingHandler) Suggest(c *gin.Context) {
	fileID, err := uuid.Parse(c.Query("file_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file ID"})
		return
	}
	templateID, err := uuid.Parse(c.Query("template_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template ID"})
		return
	}

	dataFile, err := h.files.GetByID(fileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	template, err := h.templates.GetByID(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}

	var columns, placeholders []string
	if len(dataFile.Columns) > 0 {
		if err := json.Unmarshal(dataFile.Columns, &columns); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if len(template.Placeholders) > 0 {
		if err := json.Unmarshal(template.Placeholders, &placeholders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": mapping.Suggest(columns, placeholders)})
}
