package model

import "time"

// User represents a user in the database.
type User struct {
	ID         string
	Email      string
	Account    Account
	Newsletter bool
	Token      string
	Hash       string
	Salt       string
	CreatedAt  time.Time
}

// Account holds the public profile of a user.
type Account struct {
	Username string           `json:"username"`
	Phone    string           `json:"phone,omitempty"`
	Avatar   *AssetDescriptor `json:"avatar,omitempty"`
}

// Identity is the authenticated caller resolved from a bearer token.
// It carries only the id and account summary; credentials and email are never loaded into it.
type Identity struct {
	ID       string
	Username string
}

// SignupRequest represents a user registration request.
// Avatar is populated from the multipart form when present.
type SignupRequest struct {
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Username   string   `json:"username"`
	Phone      string   `json:"phone"`
	Newsletter bool     `json:"newsletter"`
	Avatar     []Upload `json:"-"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse is returned after a successful registration.
type SignupResponse struct {
	ID      string  `json:"_id"`
	Email   string  `json:"email"`
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	ID      string  `json:"_id"`
	Token   string  `json:"token"`
	Account Account `json:"account"`
}
