package repository

import (
	"fmt"
	"time"

	"github.com/stedward-parish/directorybackend/models"
	"gorm.io/gorm"
)

// GormProfileRepository handles database operations for Profile entities
type GormProfileRepository struct {
	DB *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) ProfileRepository {
	return &GormProfileRepository{DB: db}
}

// Create creates a profile for a user. CreatedAt is fixed here and never
// touched again; the unique index on user_id enforces one profile per user.
func (r *GormProfileRepository) Create(profile *models.Profile) error {
	now := time.Now().Unix()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := r.DB.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile for user ID %d: %w", profile.UserID, err)
	}
	return nil
}

func (r *GormProfileRepository) GetByID(id uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.DB.Preload("User").Preload("Parish").Preload("Family").First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormProfileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.DB.Preload("User").Preload("Parish").Preload("Family").
		Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// List retrieves profiles for the back-office, narrowed by the filter. The
// text query matches the user's email or name and the family name.
func (r *GormProfileRepository) List(filter ProfileFilter) ([]models.Profile, error) {
	var profiles []models.Profile
	tx := r.DB.Preload("User").Preload("Parish").Preload("Family").
		Joins("LEFT JOIN users ON users.id = profiles.user_id").
		Joins("LEFT JOIN families ON families.id = profiles.family_id").
		Order("profiles.created_at DESC")

	if filter.Query != "" {
		likeQuery := "%" + filter.Query + "%"
		tx = tx.Where(
			"users.email LIKE ? OR users.first_name LIKE ? OR users.last_name LIKE ? OR families.name LIKE ?",
			likeQuery, likeQuery, likeQuery, likeQuery,
		)
	}
	if filter.ParishID != nil {
		tx = tx.Where("profiles.parish_id = ?", *filter.ParishID)
	}
	if filter.Approved != nil {
		tx = tx.Where("profiles.approved = ?", *filter.Approved)
	}
	if filter.OptIn != nil {
		tx = tx.Where("profiles.opt_in_directory = ?", *filter.OptIn)
	}

	if err := tx.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// Update persists the mutable profile fields. CreatedAt is deliberately
// absent from the column set.
func (r *GormProfileRepository) Update(profile *models.Profile) error {
	profile.UpdatedAt = time.Now().Unix()
	result := r.DB.Model(&models.Profile{}).Where("id = ?", profile.ID).Updates(map[string]interface{}{
		"parish_id":        profile.ParishID,
		"family_id":        profile.FamilyID,
		"phone":            profile.Phone,
		"address":          profile.Address,
		"visible_name":     profile.VisibleName,
		"opt_in_directory": profile.OptInDirectory,
		"approved":         profile.Approved,
		"updated_at":       profile.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update profile ID %d: %w", profile.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePhotoPath records the stored photo location. It runs only after
// normalization succeeded and the file is in place.
func (r *GormProfileRepository) UpdatePhotoPath(profileID uint, photoPath *string) error {
	result := r.DB.Model(&models.Profile{}).Where("id = ?", profileID).Updates(map[string]interface{}{
		"photo_path": photoPath,
		"updated_at": time.Now().Unix(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update photo path for profile ID %d: %w", profileID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormProfileRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Profile{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete profile ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
