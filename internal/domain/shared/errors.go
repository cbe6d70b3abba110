package shared

// DomainError is a sentinel error with a stable machine-readable code.
// Handlers map codes to HTTP statuses; services compare against the
// sentinels below with errors.Is.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized      = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden         = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvalidTransition = NewDomainError("INVALID_TRANSITION", "State transition is not permitted")
	ErrReadOnlyRecord    = NewDomainError("READ_ONLY_RECORD", "Record is read-only and cannot be modified")
	ErrDeleteRestricted  = NewDomainError("DELETE_RESTRICTED", "Record cannot be deleted while dependent records exist")
)
