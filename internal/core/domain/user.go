package domain

import (
	"strings"
	"time"
)

const (
	RoleClient     = "client"
	RoleFreelancer = "freelancer"
)

// User models a registered marketplace participant. Users are immutable once
// registered.
type User struct {
	ID           string    `json:"id" bson:"id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         string    `json:"role" bson:"role"`
	JoinedAt     time.Time `json:"joined_at" bson:"joined_at"`
}

// Registration carries the fields a new account is created from.
type Registration struct {
	Name     string `validate:"required,max=120"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Role     string `validate:"required,oneof=client freelancer"`
}

// NewUser validates reg and returns a user with a fresh id. The caller sets
// PasswordHash; the plain password is never stored.
func NewUser(reg Registration, now time.Time) (*User, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = NormalizeEmail(reg.Email)
	if err := validateRecord(reg); err != nil {
		return nil, err
	}
	return &User{
		ID:       NewID(),
		Name:     reg.Name,
		Email:    reg.Email,
		Role:     reg.Role,
		JoinedAt: now.UTC(),
	}, nil
}

// NormalizeEmail lower-cases and trims an address so uniqueness checks are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) IsClient() bool     { return u != nil && u.Role == RoleClient }
func (u *User) IsFreelancer() bool { return u != nil && u.Role == RoleFreelancer }
