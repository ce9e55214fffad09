package errx

// Type categorizes an error for boundary handling.
type Type string

const (
	// TypeInternal represents internal failures
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents malformed or rejected input
	TypeValidation Type = "VALIDATION"

	// TypeAuthorization represents authentication/authorization failures
	TypeAuthorization Type = "AUTHORIZATION"

	// TypeNotFound represents missing resources
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict represents resource conflicts
	TypeConflict Type = "CONFLICT"

	// TypeExternal represents failures of external collaborators
	TypeExternal Type = "EXTERNAL"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}
