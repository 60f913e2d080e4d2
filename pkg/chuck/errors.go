package chuck

import "github.com/pkg/errors"

// Registration errors. Any of them aborts the module's query and makes the
// host refuse to load it.
var (
	// ErrInvalidDescriptor means the query handle is nil or lacks a function
	// the operation needs.
	ErrInvalidDescriptor = errors.New("invalid query descriptor")
	// ErrNameEncoding means a name cannot be passed as a NUL-terminated string.
	ErrNameEncoding = errors.New("name is not a valid C string")
	// ErrClassRegistrationFailed means the host rejected end_class.
	ErrClassRegistrationFailed = errors.New("class registration failed")
	// ErrSessionState means an operation was issued outside the state it
	// belongs to, e.g. adding a member before begin_class.
	ErrSessionState = errors.New("operation invalid in current registration state")
	// ErrTrampolinesExhausted means every C entry point of a kind is taken.
	ErrTrampolinesExhausted = errors.New("no free trampoline")
	// ErrVersionMismatch means the host refuses the module's version.
	ErrVersionMismatch = errors.New("incompatible chugin version")
	// ErrInvalidClass means a class description failed validation.
	ErrInvalidClass = errors.New("invalid class description")
)
