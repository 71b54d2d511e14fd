package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidUsername is returned when a username doesn't meet the format rules.
	ErrInvalidUsername = fmt.Errorf("%w: username must be 4-20 characters of letters, digits, '.', '_' or '-'", ErrValidation)

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = fmt.Errorf("%w: password must be 8-32 printable characters without spaces", ErrValidation)

	// ErrEmptyTitle is returned when a task is created without a title.
	ErrEmptyTitle = fmt.Errorf("%w: title cannot be empty", ErrValidation)

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = fmt.Errorf("%w: title is too long", ErrValidation)

	// ErrDescriptionTooLong is returned when a task description exceeds MaxDescriptionLength.
	ErrDescriptionTooLong = fmt.Errorf("%w: description is too long", ErrValidation)

	// ErrInvalidTaskStatus is returned when a task status is not one of the known values.
	ErrInvalidTaskStatus = fmt.Errorf("%w: invalid task status", ErrValidation)
)
