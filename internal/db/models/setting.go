// Package models contains database model definitions.
package models

import "time"

// NameMaxLength is the longest setting name the table accepts.
const NameMaxLength = 250

// Setting is the persisted value of one runtime setting. RawValue holds the
// JSON encoding of the setting's field mapping.
type Setting struct {
	ID        uint64    `gorm:"primaryKey"`
	Name      string    `gorm:"size:250;uniqueIndex;not null"`
	RawValue  string    `gorm:"column:raw_value;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created"`
	UpdatedAt time.Time `gorm:"column:modified"`
}
