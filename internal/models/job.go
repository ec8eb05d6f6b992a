package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Job statuses. A job only moves forward: Pending -> Processing ->
// Completed or Failed.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

type Job struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FileID        uuid.UUID      `gorm:"index" json:"file_id"`
	TemplateID    uuid.UUID      `gorm:"index" json:"template_id"`
	MappingID     uuid.UUID      `gorm:"index" json:"mapping_id"`
	Status        string         `gorm:"index" json:"status"`
	TotalRows     int            `json:"total_rows"`
	ProcessedRows int            `json:"processed_rows"`
	FailedRows    int            `json:"failed_rows"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	RowErrors     datatypes.JSON `json:"row_errors,omitempty"` // JSON object: row index -> error message
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (j *Job) IncrementProcessed() {
	j.ProcessedRows++
	j.UpdatedAt = time.Now()
}

func (j *Job) IncrementFailed() {
	j.FailedRows++
	j.UpdatedAt = time.Now()
}

func (j *Job) SetStatus(status string) {
	j.Status = status
	j.UpdatedAt = time.Now()
}

// SetError records the failure reason and marks the job failed.
func (j *Job) SetError(message string) {
	j.ErrorMessage = strings.TrimSpace(message)
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
}

func (j *Job) IsComplete() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// ProgressPercentage reports processed rows against the total, 0 when
// the total is not known yet.
func (j *Job) ProgressPercentage() float64 {
	if j.TotalRows == 0 {
		return 0
	}
	return float64(j.ProcessedRows) / float64(j.TotalRows) * 100
}
