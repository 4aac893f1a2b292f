package models

// Family represents a named household grouping within a parish. The
// (parish_id, slug) pair is unique; a family is removed together with its
// parish, but deleting a family only detaches its profiles.
type Family struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ParishID  uint   `gorm:"not null;index:idx_families_parish_slug,unique" json:"parish_id"`
	Parish    Parish `gorm:"foreignKey:ParishID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string `gorm:"not null" json:"name"`
	Slug      string `gorm:"not null;index:idx_families_parish_slug,unique" json:"slug"`
	CreatedAt int64  `gorm:"not null" json:"created_at"`
	UpdatedAt int64  `gorm:"not null" json:"updated_at"`

	Profiles []Profile `gorm:"foreignKey:FamilyID;constraint:OnDelete:SET NULL" json:"profiles,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Family) TableName() string {
	return "families"
}
