package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist in the
	// caller's tenant partition. A tenant mismatch looks identical.
	ErrNotFound = errors.New("not found")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
