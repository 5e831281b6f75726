package domain

import "fmt"

// Sentinel errors for the domain layer.
var (
	ErrToolNotFound   = fmt.Errorf("tool not found")
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrTimeout        = fmt.Errorf("operation timed out")
	ErrProviderError  = fmt.Errorf("provider error")
	ErrNonHTMLContent = fmt.Errorf("non-HTML content type")
	ErrSSRFBlocked    = fmt.Errorf("request to private/reserved IP blocked")
	ErrConfigLoad     = fmt.Errorf("failed to load configuration")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "Registry.Get")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
