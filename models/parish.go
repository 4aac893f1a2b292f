package models

// Parish represents a top-level organizational grouping of families and
// profiles. It corresponds to the 'parishes' table.
type Parish struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Slug      string `gorm:"not null;uniqueIndex" json:"slug"`
	CreatedAt int64  `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp
	UpdatedAt int64  `gorm:"not null" json:"updated_at"` // Stored as INTEGER in SQLite, Unix timestamp

	// Relationships
	// omitempty will hide these if they are not preloaded or are empty
	Families []Family  `gorm:"foreignKey:ParishID;constraint:OnDelete:CASCADE" json:"families,omitempty"`
	Profiles []Profile `gorm:"foreignKey:ParishID;constraint:OnDelete:CASCADE" json:"profiles,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Parish) TableName() string {
	return "parishes"
}
