package website

import "errors"

// Failure taxonomy shared by the persistence boundary, the builder and the API.
var (
	ErrValidation      = errors.New("validation failure")
	ErrDataUnavailable = errors.New("data unavailable")
	ErrSaveFailure     = errors.New("save failure")
	ErrNotFound        = errors.New("not found")

	// ErrSubdomainTaken is reported together with ErrSaveFailure.
	ErrSubdomainTaken = errors.New("subdomain already taken")
)
