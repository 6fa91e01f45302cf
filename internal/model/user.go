// Package model defines the data structures shared across the application.
// Structs here carry no behaviour beyond trivial accessors — validation and
// business rules live in the service layer, persistence in the repositories.
package model

import "time"

// User is a registered account.
//
// PasswordHash holds the bcrypt digest of the password the user registered
// with. It is tagged `json:"-"` so it can never leak into an API response,
// no matter which handler serialises the struct.
//
// Email is intentionally NOT unique at the storage level. Duplicate
// registrations are allowed; login refuses the ambiguous case instead
// (see service.IdentityService.Authenticate).
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Alias        string    `json:"alias"     db:"alias"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName returns the display form "Name Alias".
func (u *User) FullName() string {
	return u.Name + " " + u.Alias
}
