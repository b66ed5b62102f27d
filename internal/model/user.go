// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account. Regular users can browse the
// catalog; administrators can also mutate it.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdministrator reports whether the user holds elevated privilege.
func (u *User) IsAdministrator() bool {
	return u.IsAdmin
}
