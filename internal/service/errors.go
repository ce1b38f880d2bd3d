package service

import (
	"errors"

	"github.com/templui/userfiles/internal/repository"
)

var (
	// ErrNotAuthenticated means the caller presented no valid identity
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUnauthorized means the caller is known but does not own the record
	ErrUnauthorized = errors.New("unauthorized: you can only delete your own files")

	// ErrMissingUserRecord means an authenticated caller has no user record
	// where provisioning should already have created one. It indicates a bug.
	ErrMissingUserRecord = errors.New("bug: user is authenticated but is missing a record in the database")

	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound = repository.ErrUserNotFound
	ErrFileNotFound = repository.ErrFileNotFound
)
