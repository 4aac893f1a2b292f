package repository

import (
	"github.com/stedward-parish/directorybackend/models"
)

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	ListAll() ([]models.User, error)

	// direct global permission management for a user
	SetGlobalPermissions(userID uint, permissions []string) error
}

// ParishRepository defines the methods for parish data operations
type ParishRepository interface {
	Create(parish *models.Parish) error
	GetByID(id uint) (*models.Parish, error)
	GetBySlug(slug string) (*models.Parish, error)
	List(nameQuery string) ([]models.Parish, error)
	Update(parish *models.Parish) error
	Delete(id uint) error
}

// FamilyFilter narrows the back-office family listing.
type FamilyFilter struct {
	NameQuery string
	ParishID  *uint
}

// FamilyRepository defines the methods for family data operations
type FamilyRepository interface {
	Create(family *models.Family) error
	GetByID(id uint) (*models.Family, error)
	GetBySlug(parishID uint, slug string) (*models.Family, error)
	List(filter FamilyFilter) ([]models.Family, error)
	Update(family *models.Family) error
	Delete(id uint) error
}

// ProfileFilter narrows the back-office profile listing.
type ProfileFilter struct {
	Query    string // matches user email/name or family name
	ParishID *uint
	Approved *bool
	OptIn    *bool
}

// ProfileRepository defines the methods for profile data operations
type ProfileRepository interface {
	Create(profile *models.Profile) error
	GetByID(id uint) (*models.Profile, error)
	GetByUserID(userID uint) (*models.Profile, error)
	List(filter ProfileFilter) ([]models.Profile, error)
	Update(profile *models.Profile) error
	UpdatePhotoPath(profileID uint, photoPath *string) error
	Delete(id uint) error
}

// InviteCodeRepository defines the methods for invite code data operations
type InviteCodeRepository interface {
	Create(inviteCode *models.InviteCode) error
	GetByCode(code string) (*models.InviteCode, error)
	GetByID(id uint) (*models.InviteCode, error)
	Update(inviteCode *models.InviteCode) error
	IncrementUses(id uint) error
	ListAll() ([]models.InviteCode, error)
	Delete(id uint) error
}
