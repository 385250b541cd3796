package model

import "time"

// Profile carries the public-facing subset of a user profile.
type Profile struct {
	Photo       string   `json:"photo,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	CompanyName string   `json:"companyName,omitempty"`
	Industry    string   `json:"industry,omitempty"`
	Location    string   `json:"location,omitempty"`
}

// User is a worker or company account. Email is unique.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	Role         Role       `json:"role"`
	Profile      Profile    `json:"profile"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Sanitized returns a copy safe for client responses.
func (u *User) Sanitized() *User {
	out := *u
	out.PasswordHash = ""
	return &out
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Role     Role    `json:"role" validate:"required,oneof=worker company"`
	Profile  Profile `json:"profile"`
}

// LoginRequest authenticates an account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns the account plus a signed token.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
