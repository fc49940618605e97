// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account. PasswordHash holds the argon2id
// PHC string and must never be serialized outward.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Age          *int      `json:"age,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Age bounds enforced at registration and by the storage constraint.
const (
	MinAge = 10
	MaxAge = 100
)

// AgeInRange reports whether the user's age is absent or within bounds.
func (u *User) AgeInRange() bool {
	if u.Age == nil {
		return true
	}
	return *u.Age >= MinAge && *u.Age <= MaxAge
}
