package models

import "strings"

// Profile is a single user's directory entry. Exactly one exists per user;
// it is removed when its user or parish is deleted and detached (FamilyID
// set to NULL) when its family is deleted.
type Profile struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint    `gorm:"not null;uniqueIndex" json:"user_id"`
	User     User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ParishID uint    `gorm:"not null;index" json:"parish_id"`
	Parish   Parish  `gorm:"foreignKey:ParishID;constraint:OnDelete:CASCADE" json:"parish,omitempty"`
	FamilyID *uint   `gorm:"index" json:"family_id,omitempty"`
	Family   *Family `gorm:"foreignKey:FamilyID;constraint:OnDelete:SET NULL" json:"family,omitempty"`

	Phone       string `json:"phone"`
	Address     string `json:"address"`
	VisibleName string `json:"visible_name"`

	// PhotoPath is relative to the media storage root, e.g.
	// profiles/u42/beach.jpg. Nil when no photo has been uploaded.
	PhotoPath *string `gorm:"" json:"photo_path,omitempty"`

	OptInDirectory bool `gorm:"not null;default:false" json:"opt_in_directory"`
	Approved       bool `gorm:"not null;default:false" json:"approved"`

	// CreatedAt is set once by the repository on create and never updated.
	CreatedAt int64 `gorm:"not null;<-:create" json:"created_at"`
	UpdatedAt int64 `gorm:"not null" json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Profile) TableName() string {
	return "profiles"
}

// DisplayName resolves the name shown in the directory: the explicit
// override if set, otherwise the user's full name, otherwise the username.
// Requires User to be preloaded.
func (p *Profile) DisplayName() string {
	if p.VisibleName != "" {
		return p.VisibleName
	}
	full := strings.TrimSpace(p.User.FirstName + " " + p.User.LastName)
	if full != "" {
		return full
	}
	return p.User.Username
}
