package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Template struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"index" json:"name"`
	Description  string         `json:"description"`
	Placeholders datatypes.JSON `json:"placeholders"` // JSON array of unique placeholder names
	FilePath     string         `json:"file_path"`
	CreatedAt    time.Time      `json:"created_at"`
}
