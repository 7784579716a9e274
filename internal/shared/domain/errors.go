package domain

import "errors"

// Taxonomía de errores. Los errores concretos de cada contexto envuelven uno de estos.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrCommitFailure    = errors.New("commit failure")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrUnauthenticated  = errors.New("unauthenticated")
)
