package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DataFile struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OriginalName string         `json:"original_name"`
	FilePath     string         `json:"file_path"`
	Columns      datatypes.JSON `json:"columns"` // JSON array of column names, header order
	RowCount     int            `json:"row_count"`
	CreatedAt    time.Time      `json:"created_at"`
}
