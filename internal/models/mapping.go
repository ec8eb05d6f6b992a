package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MappingEntry associates one data column with one template placeholder.
// Entries are kept as an ordered list rather than a map: when several
// columns map to the same placeholder, the later entry wins at render
// time, and that order must be deterministic.
type MappingEntry struct {
	Column      string `json:"column"`
	Placeholder string `json:"placeholder"`
}

type Mapping struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FileID         uuid.UUID      `gorm:"index" json:"file_id"`
	TemplateID     uuid.UUID      `gorm:"index" json:"template_id"`
	ColumnMappings datatypes.JSON `json:"column_mappings"` // JSON array of MappingEntry
	CreatedAt      time.Time      `json:"created_at"`
}

// Entries decodes the stored column mappings preserving their order.
func (m *Mapping) Entries() ([]MappingEntry, error) {
	if len(m.ColumnMappings) == 0 {
		return nil, nil
	}
	var entries []MappingEntry
	if err := json.Unmarshal(m.ColumnMappings, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetEntries validates, trims and stores the column mappings.
func (m *Mapping) SetEntries(entries []MappingEntry) error {
	cleaned, err := NormalizeEntries(entries)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(cleaned)
	if err != nil {
		return err
	}
	m.ColumnMappings = raw
	return nil
}

// NormalizeEntries trims column and placeholder names and rejects
// entries that are empty after trimming.
func NormalizeEntries(entries []MappingEntry) ([]MappingEntry, error) {
	cleaned := make([]MappingEntry, 0, len(entries))
	for _, e := range entries {
		column := strings.TrimSpace(e.Column)
		placeholder := strings.TrimSpace(e.Placeholder)
		if column == "" {
			return nil, errors.New("column name cannot be empty or whitespace only")
		}
		if placeholder == "" {
			return nil, errors.New("placeholder name cannot be empty or whitespace only")
		}
		cleaned = append(cleaned, MappingEntry{Column: column, Placeholder: placeholder})
	}
	return cleaned, nil
}
