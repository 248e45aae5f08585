package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Enrollment errors
var (
	ErrOfferingClosed             = errors.New("offering is closed for requests")
	ErrDuplicateActiveRequest     = errors.New("student already has an active request in this container")
	ErrAlreadyAcceptedInContainer = errors.New("student is already accepted into a course of this container")
	ErrCapacityBelowMinimum       = errors.New("capacity cannot be lower than the deanery minimum")
	ErrNotRequestOwner            = errors.New("request belongs to another student")
	ErrRequestNotFound            = errors.New("enrollment request not found")
)

// Directory errors
var (
	ErrOfferingNotFound  = errors.New("offering not found")
	ErrContainerNotFound = errors.New("container not found")
	ErrCourseNotFound    = errors.New("course not found")
	ErrStudentNotFound   = errors.New("student not found")
	ErrCourseExists      = errors.New("course with this name already exists")
)

// Transaction errors
var (
	// ErrSerializationFailure marks a transaction conflict the caller may retry.
	ErrSerializationFailure = errors.New("transaction serialization failure")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
