package repository

import (
	"document-fill-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MappingRepository struct {
	db *gorm.DB
}

func NewMappingRepository(db *gorm.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

func (r *MappingRepository) Create(mapping *models.Mapping) error {
	return r.db.Create(mapping).Error
}

func (r *MappingRepository) GetByID(id uuid.UUID) (*models.Mapping, error) {
	var mapping models.Mapping
	if err := r.db.First(&mapping, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *MappingRepository) List() ([]models.Mapping, error) {
	var mappings []models.Mapping
	err := r.db.Order("created_at DESC").Find(&mappings).Error
	return mappings, err
}

// UpdateColumnMappings replaces the whole column mapping list; the
// mapping's id and parents never change.
func (r *MappingRepository) UpdateColumnMappings(mapping *models.Mapping) error {
	return r.db.Model(mapping).Update("column_mappings", mapping.ColumnMappings).Error
}

func (r *MappingRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Mapping{}, "id = ?", id).Error
}
