package repository

import (
	"fmt"
	"time"

	"github.com/stedward-parish/directorybackend/models"
	"gorm.io/gorm"
)

// GormParishRepository handles database operations for Parish entities
type GormParishRepository struct {
	DB *gorm.DB
}

func NewGormParishRepository(db *gorm.DB) ParishRepository {
	return &GormParishRepository{DB: db}
}

// Create creates a new parish record. The caller is expected to have derived
// the slug already; the unique index rejects collisions.
func (r *GormParishRepository) Create(parish *models.Parish) error {
	now := time.Now().Unix()
	if parish.CreatedAt == 0 {
		parish.CreatedAt = now
	}
	parish.UpdatedAt = now

	if err := r.DB.Create(parish).Error; err != nil {
		return fmt.Errorf("failed to create parish %s: %w", parish.Name, err)
	}
	return nil
}

func (r *GormParishRepository) GetByID(id uint) (*models.Parish, error) {
	var parish models.Parish
	if err := r.DB.First(&parish, id).Error; err != nil {
		return nil, err
	}
	return &parish, nil
}

func (r *GormParishRepository) GetBySlug(slug string) (*models.Parish, error) {
	var parish models.Parish
	if err := r.DB.Where("slug = ?", slug).First(&parish).Error; err != nil {
		return nil, err
	}
	return &parish, nil
}

// List retrieves parishes ordered by name, optionally filtered by a
// case-insensitive name substring.
func (r *GormParishRepository) List(nameQuery string) ([]models.Parish, error) {
	var parishes []models.Parish
	tx := r.DB.Order("name ASC")
	if nameQuery != "" {
		tx = tx.Where("name LIKE ?", "%"+nameQuery+"%")
	}
	if err := tx.Find(&parishes).Error; err != nil {
		return nil, fmt.Errorf("failed to list parishes: %w", err)
	}
	return parishes, nil
}

func (r *GormParishRepository) Update(parish *models.Parish) error {
	parish.UpdatedAt = time.Now().Unix()
	result := r.DB.Model(&models.Parish{}).Where("id = ?", parish.ID).Updates(map[string]interface{}{
		"name":       parish.Name,
		"slug":       parish.Slug,
		"updated_at": parish.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update parish ID %d: %w", parish.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a parish. Dependent families and profiles go with it via
// the ON DELETE CASCADE rules.
func (r *GormParishRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Parish{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete parish ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
