package models

// Setting represents a configuration setting stored in the database.
// System settings and outbound email settings both live here, keyed by name.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique"`
	Value []byte `gorm:"type:blob"`
}
