package domain

import "time"

// User is owned by the user directory; the storefront only reads it for reports.
type User struct {
	ID             uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string     `json:"username" gorm:"size:255;not null;uniqueIndex"`
	PasswordDigest string     `json:"-" gorm:"size:255;not null"`
	FirstName      string     `json:"first_name" gorm:"size:255"`
	LastName       string     `json:"last_name" gorm:"size:255"`
	LastLoginDate  *time.Time `json:"last_login_date,omitempty"`
}
