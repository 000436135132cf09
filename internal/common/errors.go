// Package common contains shared constants and sentinel errors used across
// FileVault components. Callers should use errors.Is / errors.As to match
// these values.
package common

import "errors"

// BadRequestError is a validation failure whose Reason is safe to return to
// the caller verbatim.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string { return e.Reason }

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorAlreadyExists = errors.New("already exists")

	// Validation errors. The Reason strings are part of the API contract.
	ErrMissingEmail    = &BadRequestError{"Missing email"}
	ErrMissingPassword = &BadRequestError{"Missing password"}
	ErrMissingName     = &BadRequestError{"Missing name"}
	ErrMissingType     = &BadRequestError{"Missing type"}
	ErrMissingData     = &BadRequestError{"Missing data"}
	ErrInvalidData     = &BadRequestError{"Invalid data"}
	ErrParentNotFound  = &BadRequestError{"Parent not found"}
	ErrParentNotFolder = &BadRequestError{"Parent is not a folder"}
	ErrFolderNoContent = &BadRequestError{"A folder doesn't have content"}
	ErrBadCredentials  = &BadRequestError{"Malformed credentials"}
)
