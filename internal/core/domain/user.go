package domain

import (
	"regexp"
	"time"
)

const (
	RoleReader = "Reader"
	RoleAuthor = "Author"
)

// emailPattern is deliberately loose: something before the @, something
// after it, and a dot in the host part.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidEmail reports whether s has a plausible email shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleReader || role == RoleAuthor
}

// User models a registered account. RefreshToken holds the single active
// refresh token; it is overwritten on every login and refresh, which
// invalidates any previously issued one.
type User struct {
	ID                 string    `json:"id" db:"user_id"`
	Email              string    `json:"email" db:"email"`
	PasswordHash       string    `json:"-" db:"password_hash"`
	Role               string    `json:"role" db:"role"`
	RefreshToken       string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiry time.Time `json:"-" db:"refresh_token_expiry"`
}
