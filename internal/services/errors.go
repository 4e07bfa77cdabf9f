package services

import (
	"errors"

	"udinder-backend/internal/repository"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = repository.ErrNotFound
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSelfAction         = errors.New("cannot target yourself")
	ErrNotMatched         = errors.New("users are not matched")
	ErrForbidden          = errors.New("forbidden")
)
