package service

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrBadSecret          = errors.New("invalid registration secret")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("product not found")
)
