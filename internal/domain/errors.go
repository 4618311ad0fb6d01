package domain

import "errors"

// Authentication errors
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalid     = errors.New("session is missing, expired, or invalid")
	ErrUserNotFound       = errors.New("user not found")
)
