package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrPrincipalNotFound  = errors.New("principal not found")

	// Authorization errors
	ErrForbidden                = errors.New("forbidden")
	ErrNotAuthorizedForResource = errors.New("not authorized for this resource")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// Account errors
var (
	ErrDuplicateUsername error = &CustomError{Err: ErrConflict, Message: "username already exists"}
	ErrLinkConflict      error = &CustomError{Err: ErrConflict, Message: "account is already linked to a profile"}
)

// Directory errors. The not-found errors unwrap to ErrResourceNotFound and the
// restricted deletes unwrap to ErrConflict.
var (
	ErrDepartmentNotFound     error = &CustomError{Err: ErrResourceNotFound, Message: "department not found"}
	ErrDepartmentHasRelations error = &CustomError{Err: ErrConflict, Message: "department has associated records and cannot be deleted"}
	ErrTeacherNotFound        error = &CustomError{Err: ErrResourceNotFound, Message: "teacher not found"}
	ErrTeacherHasCourses      error = &CustomError{Err: ErrConflict, Message: "teacher is assigned to courses and cannot be deleted"}
	ErrStudentNotFound        error = &CustomError{Err: ErrResourceNotFound, Message: "student not found"}
	ErrCourseNotFound         error = &CustomError{Err: ErrResourceNotFound, Message: "course not found"}
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for a role mismatch with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// NewValidationError creates a new custom error for a malformed payload with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

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
