// Package apperr holds the error kinds shared by repositories, services and HTTP handlers.
package apperr

import "errors"

var (
	// ErrValidation marks bad caller input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing admission, bed, patient or bill.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a state clash such as an occupied bed or a finalized admission.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized marks failed credentials.
	ErrUnauthorized = errors.New("unauthorized")
)
