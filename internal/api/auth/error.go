package auth

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyExists     = errors.New("email already registered")
	ErrInvalidEmailOrPassword = errors.New("invalid email or password")
)
