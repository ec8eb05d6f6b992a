package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"document-fill-backend/internal/repository"
	"document-fill-backend/internal/services/batch"
	"document-fill-backend/internal/services/fill"
	"document-fill-backend/internal/storage"
)

type JobHandler struct {
	jobs   *repository.JobRepository
	runner *batch.Runner
	store  *storage.Storage
	log    *logrus.Logger
}

func NewJobHandler(jobs *repository.JobRepository, runner *batch.Runner, store *storage.Storage, log *logrus.Logger) *JobHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &JobHandler{jobs: jobs, runner: runner, store: store, log: log}
}

func (h *JobHandler) Create(c *gin.Context) {
	var payload struct {
		FileID     string `json:"file_id"`
		TemplateID string `json:"template_id"`
		MappingID  string `json:"mapping_id"`
	}
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
	mappingID, err := uuid.Parse(payload.MappingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mapping ID"})
		return
	}

	job, err := h.runner.CreateJob(fileID, templateID, mappingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// Run starts the batch in the background; the client polls progress
// afterwards.
func (h *JobHandler) Run(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job ID"})
		return
	}

	strategy, err := fill.ParseStrategy(c.Query("strategy"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.jobs.GetByID(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	go func() {
		if err := h.runner.Run(id, strategy); err != nil {
			h.log.WithError(err).WithField("job_id", id).Error("batch run failed")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": id.String(),
		"status": "processing",
	})
}

func (h *JobHandler) GetProgress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job ID"})
		return
	}

	job, err := h.jobs.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":         job.ID,
		"status":         job.Status,
		"total_rows":     job.TotalRows,
		"processed_rows": job.ProcessedRows,
		"failed_rows":    job.FailedRows,
		"progress":       job.ProgressPercentage(),
		"error_message":  job.ErrorMessage,
		"row_errors":     job.RowErrors,
	})
}

func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.jobs.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) ListOutputs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job ID"})
		return
	}

	files, err := h.store.ListOutputs(id.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_id": id.String(), "files": files})
}

func (h *JobHandler) DownloadOutput(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job ID"})
		return
	}
	filename := c.Param("filename")

	content, err := h.store.ReadOutput(id.String(), filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "output not found"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filepath.Base(filename)+`"`)
	c.Data(http.StatusOK, contentTypeFor(filename), content)
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".html":
		return "text/html; charset=utf-8"
	case ".csv":
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
