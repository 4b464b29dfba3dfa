package domain

import "errors"

var (
	// ErrAlreadyResolved is returned when a violation or termination record
	// has already received its one allowed response.
	ErrAlreadyResolved = errors.New("already resolved")

	// ErrInvalidChoice is returned for an unknown termination choice.
	ErrInvalidChoice = errors.New("invalid termination choice")

	// ErrInvalidResolution is returned for an unknown violation resolution.
	ErrInvalidResolution = errors.New("invalid violation resolution")
)
