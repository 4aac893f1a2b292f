package repository

import (
	"fmt"
	"time"

	"github.com/stedward-parish/directorybackend/models"
	"gorm.io/gorm"
)

// GormFamilyRepository handles database operations for Family entities
type GormFamilyRepository struct {
	DB *gorm.DB
}

func NewGormFamilyRepository(db *gorm.DB) FamilyRepository {
	return &GormFamilyRepository{DB: db}
}

// Create creates a new family record. The composite unique index on
// (parish_id, slug) rejects duplicate slugs within a parish.
func (r *GormFamilyRepository) Create(family *models.Family) error {
	now := time.Now().Unix()
	if family.CreatedAt == 0 {
		family.CreatedAt = now
	}
	family.UpdatedAt = now

	if err := r.DB.Create(family).Error; err != nil {
		return fmt.Errorf("failed to create family %s: %w", family.Name, err)
	}
	return nil
}

func (r *GormFamilyRepository) GetByID(id uint) (*models.Family, error) {
	var family models.Family
	if err := r.DB.First(&family, id).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *GormFamilyRepository) GetBySlug(parishID uint, slug string) (*models.Family, error) {
	var family models.Family
	err := r.DB.Where("parish_id = ? AND slug = ?", parishID, slug).First(&family).Error
	if err != nil {
		return nil, err
	}
	return &family, nil
}

// List retrieves families ordered by name, narrowed by the filter.
func (r *GormFamilyRepository) List(filter FamilyFilter) ([]models.Family, error) {
	var families []models.Family
	tx := r.DB.Order("name ASC")
	if filter.NameQuery != "" {
		tx = tx.Where("name LIKE ?", "%"+filter.NameQuery+"%")
	}
	if filter.ParishID != nil {
		tx = tx.Where("parish_id = ?", *filter.ParishID)
	}
	if err := tx.Find(&families).Error; err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	return families, nil
}

func (r *GormFamilyRepository) Update(family *models.Family) error {
	family.UpdatedAt = time.Now().Unix()
	result := r.DB.Model(&models.Family{}).Where("id = ?", family.ID).Updates(map[string]interface{}{
		"name":       family.Name,
		"slug":       family.Slug,
		"parish_id":  family.ParishID,
		"updated_at": family.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update family ID %d: %w", family.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a family. Profiles referencing it keep existing with their
// family_id cleared by the ON DELETE SET NULL rule.
func (r *GormFamilyRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Family{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete family ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
