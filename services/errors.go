package services

import "errors"

// Sentinel errors returned by the service layer. Controllers map these to
// HTTP status codes with errors.Is.
var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
