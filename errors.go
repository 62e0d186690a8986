package accesskit

import (
	"errors"
	"fmt"
)

// Sentinel errors for AccessKit operations.
var (
	// ErrMissingBusinessID is returned when an assignment context has no business ID.
	ErrMissingBusinessID = errors.New("accesskit: missing business ID")

	// ErrPlatformRole is returned when a platform-reserved role is used in a business scope.
	ErrPlatformRole = errors.New("accesskit: platform role not assignable in business scope")

	// ErrDepartmentWithoutLocation is returned when a context names a department but no location.
	ErrDepartmentWithoutLocation = errors.New("accesskit: department requires a location")

	// ErrBusinessLevelRole is returned when a business-level role is given a location or department.
	ErrBusinessLevelRole = errors.New("accesskit: role is business-level only")

	// ErrLocationLevelRole is returned when a location-level role is missing a location or given a department.
	ErrLocationLevelRole = errors.New("accesskit: role is location-level only")

	// ErrDepartmentLevelRole is returned when a department-level role is missing a department.
	ErrDepartmentLevelRole = errors.New("accesskit: role is department-level only")

	// ErrExpiryNotFuture is returned when extending an assignment to a non-future instant.
	ErrExpiryNotFuture = errors.New("accesskit: expiration must be in the future")

	// ErrInvalidBusiness is returned when a business context is built with missing or too-short fields.
	ErrInvalidBusiness = errors.New("accesskit: invalid business")

	// ErrLocationExists is returned when adding a location whose ID already exists.
	ErrLocationExists = errors.New("accesskit: location already exists")

	// ErrDepartmentExists is returned when adding a department whose ID already exists in the location.
	ErrDepartmentExists = errors.New("accesskit: department already exists")

	// ErrBusinessNotFound is returned when a business does not exist.
	ErrBusinessNotFound = errors.New("accesskit: business not found")

	// ErrLocationNotFound is returned when referencing a location that is not in the business.
	ErrLocationNotFound = errors.New("accesskit: location not found")

	// ErrDepartmentNotFound is returned when referencing a department that is not in the location.
	ErrDepartmentNotFound = errors.New("accesskit: department not found")

	// ErrUnauthorized is returned when a user lacks the required permission, authority or scope.
	ErrUnauthorized = errors.New("accesskit: unauthorized")

	// ErrInvalidCatalog is returned when a catalog definition fails validation.
	ErrInvalidCatalog = errors.New("accesskit: invalid catalog")

	// ErrNoUserID is returned when user ID is not found in context.
	ErrNoUserID = errors.New("accesskit: no user ID in context")

	// ErrNoActorID is returned when actor ID is not found in context for audit.
	ErrNoActorID = errors.New("accesskit: no actor ID in context")

	// ErrAssignmentNotFound is returned when an assignment ID does not exist.
	ErrAssignmentNotFound = errors.New("accesskit: assignment not found")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("accesskit: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err          error  // Underlying sentinel error
	Message      string // Additional context
	Role         Role   // Role involved (if applicable)
	BusinessID   string // Business involved
	LocationID   string // Location involved
	DepartmentID string // Department involved
	UserID       string // User involved (if applicable)
	ActorID      string // Actor who triggered the error (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithContext adds the assignment or target context to the error.
func (e *Error) WithContext(c Context) *Error {
	e.BusinessID = c.BusinessID
	e.LocationID = c.LocationID
	e.DepartmentID = c.DepartmentID
	return e
}

// WithRole adds role information to the error.
func (e *Error) WithRole(role Role) *Error {
	e.Role = role
	return e
}

// WithUser adds user information to the error.
func (e *Error) WithUser(userID string) *Error {
	e.UserID = userID
	return e
}

// WithActor adds actor information to the error.
func (e *Error) WithActor(actorID string) *Error {
	e.ActorID = actorID
	return e
}

// IsUnauthorized checks if an error is an authorization denial.
// Denials are expected outcomes, not defects; callers should present them
// as "access denied" rather than as internal errors.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if an error is a structural validation error raised
// at assignment creation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingBusinessID) ||
		errors.Is(err, ErrPlatformRole) ||
		errors.Is(err, ErrDepartmentWithoutLocation) ||
		errors.Is(err, ErrBusinessLevelRole) ||
		errors.Is(err, ErrLocationLevelRole) ||
		errors.Is(err, ErrDepartmentLevelRole)
}

// IsTreeError checks if an error is a structural error on the business tree.
func IsTreeError(err error) bool {
	return errors.Is(err, ErrLocationExists) ||
		errors.Is(err, ErrDepartmentExists) ||
		errors.Is(err, ErrLocationNotFound) ||
		errors.Is(err, ErrDepartmentNotFound)
}
