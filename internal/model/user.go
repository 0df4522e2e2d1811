package model

import "time"

// User roles
const (
	RoleUser        = "user"
	RoleContributor = "contributor"
	RoleLandlord    = "landlord"
	RoleAdmin       = "admin"
)

// User represents a platform account. A landlord user owns properties,
// a contributor user authors reviews.
type User struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	FullName     string     `json:"full_name" db:"full_name"`
	PhoneNumber  *string    `json:"phone_number,omitempty" db:"phone_number"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
