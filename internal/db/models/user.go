package models

import (
	"strconv"
	"strings"
	"time"
)

// User is an account that settings can point at, for instance the recipient
// of notifications.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the account is in use.
	Active bool
	// Username is the unique login name.
	Username string `gorm:"unique;size:100;not null"`
	// Email is the user's email address.
	Email     string `gorm:"size:255;not null"`
	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntityID identifies the user inside a setting value.
func (u User) EntityID() string {
	return strconv.FormatUint(u.ID, 10)
}

// String is the label shown in selection lists.
func (u User) String() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}

	return name + " (" + u.Username + ")"
}
