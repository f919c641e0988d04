package services

import "errors"

// Sentinel errors returned by services. Handlers map these onto HTTP
// status codes; anything else is treated as an internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("not allowed to perform this action")
	ErrConflict           = errors.New("resource already exists")
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
