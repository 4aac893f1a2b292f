package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered parishioner or administrator account.
type User struct {
	ID                uint     `json:"id" gorm:"primaryKey"`
	Username          string   `json:"username" gorm:"uniqueIndex;not null"`
	Email             string   `json:"email" gorm:"index"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	PasswordHash      string   `json:"-" gorm:"not null"`                         // "-" means don't include in JSON responses
	GlobalPermissions []string `json:"global_permissions" gorm:"serializer:json"` // Use JSON serializer

	// Profile is the user's single directory entry. Deleting the user
	// deletes the profile with it.
	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// HasGlobalPermission checks if the user has a specific global permission.
func (u *User) HasGlobalPermission(permission string) bool {
	for _, p := range u.GlobalPermissions {
		if p == permission {
			return true
		}
	}
	return false
}
