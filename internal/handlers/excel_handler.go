package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"document-fill-backend/internal/repository"
	"document-fill-backend/internal/services/fill"
	"document-fill-backend/internal/services/tabular"
	"document-fill-backend/internal/storage"
)

// ExcelHandler drives cell-mapping mode: XLSX templates are filled by
// writing values into explicitly addressed cells instead of scanning
// for {{...}} tokens.
type ExcelHandler struct {
	templates *repository.TemplateRepository
	files     *repository.FileRepository
	mappings  *repository.MappingRepository
	filler    *fill.ExcelFiller
	store     *storage.Storage
}

func NewExcelHandler(
	templates *repository.TemplateRepository,
	files *repository.FileRepository,
	mappings *repository.MappingRepository,
	filler *fill.ExcelFiller,
	store *storage.Storage,
) *ExcelHandler {
	return &ExcelHandler{templates: templates, files: files, mappings: mappings, filler: filler, store: store}
}

type excelFillPayload struct {
	TemplateID   string `json:"template_id"`
	FileID       string `json:"file_id"`
	MappingID    string `json:"mapping_id"`   // optional: remap columns to placeholders first
	CellMapping  string `json:"cell_mapping"` // "placeholder:B2,placeholder:C3"
	Mode         string `json:"mode"`         // "sheets" (default) or "separate"
	OutputPrefix string `json:"output_prefix"`
}

// Fill fills every data row into an XLSX template. Mode "sheets"
// produces one workbook with a cloned sheet per row, returned directly;
// mode "separate" produces one workbook per row, persisted for download.
func (h *ExcelHandler) Fill(c *gin.Context) {
	var payload excelFillPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	templateID, err := uuid.Parse(payload.TemplateID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template ID"})
		return
	}
	fileID, err := uuid.Parse(payload.FileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file ID"})
		return
	}

	template, err := h.templates.GetByID(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	if strings.ToLower(filepath.Ext(template.FilePath)) != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cell-mapping fill requires an .xlsx template"})
		return
	}

	dataFile, err := h.files.GetByID(fileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	cellMapping := fill.ParseCellMapping(payload.CellMapping)
	if len(cellMapping) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cell_mapping has no valid entries"})
		return
	}

	rows, _, err := tabular.ParseFile(dataFile.FilePath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data file has no rows"})
		return
	}

	// With a mapping, rows are re-keyed from column names to
	// placeholder names first; without one, the columns are assumed to
	// already be named after the placeholders.
	if payload.MappingID != "" {
		mappingID, err := uuid.Parse(payload.MappingID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mapping ID"})
			return
		}
		m, err := h.mappings.GetByID(mappingID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "mapping not found"})
			return
		}
		entries, err := m.Entries()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		for i, row := range rows {
			rows[i] = fill.ResolveValues(row, entries)
		}
	}

	switch payload.Mode {
	case "", "sheets":
		content, err := h.filler.FillBatch(template.FilePath, rows, cellMapping)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		name := payload.OutputPrefix
		if name == "" {
			name = "output"
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`.xlsx"`)
		c.Data(http.StatusOK, contentTypeFor(".xlsx"), content)
	case "separate":
		outputs, err := h.filler.FillBatchSeparate(template.FilePath, rows, cellMapping, payload.OutputPrefix)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		outputID := uuid.New().String()
		filenames := make([]string, 0, len(outputs))
		for _, out := range outputs {
			if _, err := h.store.SaveOutput(outputID, out.Filename, out.Content); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			filenames = append(filenames, out.Filename)
		}
		c.JSON(http.StatusOK, gin.H{"output_id": outputID, "files": filenames})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode, must be 'sheets' or 'separate'"})
	}
}
