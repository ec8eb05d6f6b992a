package repository

import (
	"document-fill-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(file *models.DataFile) error {
	return r.db.Create(file).Error
}

func (r *FileRepository) GetByID(id uuid.UUID) (*models.DataFile, error) {
	var file models.DataFile
	if err := r.db.First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) List() ([]models.DataFile, error) {
	var files []models.DataFile
	err := r.db.Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *FileRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.DataFile{}, "id = ?", id).Error
}
