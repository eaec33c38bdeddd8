package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidReference is returned when a job's file reference is not
	// a recognized, well-formed location descriptor.
	ErrInvalidReference = errors.New("invalid source reference")

	// ErrInsufficientContent is returned when the source text of a job is
	// shorter than the minimum required for generation.
	ErrInsufficientContent = errors.New("insufficient source content")
)
