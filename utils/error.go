package utils

import "errors"

// Sentinel errors for the membership workflow. Handlers map these to HTTP
// statuses; everything else is treated as an internal error.
var (
	ErrUnauthenticated       = errors.New("unauthorized")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrorRecordNotFound      = errors.New("record not found")
	ErrInsufficientApprovals = errors.New("at least 2 Committee approvals (President, Secretary, Treasurer) are required")
	ErrDuplicateMember       = errors.New("a member with this Mobile, Email, or GST already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
)

// ValidationError marks malformed or missing input. The message is user-facing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
