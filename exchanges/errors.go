package exchange

import (
	"errors"
	"fmt"
)

// Failure kinds shared by every exchange implementation. Venue-specific
// codes and messages are classified onto exactly one of these sentinels so
// callers branch with errors.Is instead of string matching.
var (
	// ErrAuthentication covers missing, malformed or rejected credentials,
	// including signature mismatches
	ErrAuthentication = errors.New("authentication error")
	// ErrPermissionDenied covers valid credentials lacking rights for the
	// requested operation
	ErrPermissionDenied = errors.New("permission denied")
	// ErrBadSymbol covers unknown or non-tradeable instruments
	ErrBadSymbol = errors.New("bad symbol")
	// ErrBadRequest covers malformed or unprocessable request parameters
	ErrBadRequest = errors.New("bad request")
	// ErrInvalidOrder covers order placement and amendment rejections
	ErrInvalidOrder = errors.New("invalid order")
	// ErrInsufficientFunds covers balance shortfalls
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrRateLimit covers venue throttling
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrOnMaintenance covers venue maintenance windows
	ErrOnMaintenance = errors.New("exchange on maintenance")
	// ErrNetwork covers transport-level failures worth retrying upstream
	ErrNetwork = errors.New("network error")
	// ErrRequestTimeout covers operations whose outcome is unknown
	ErrRequestTimeout = errors.New("request timed out")
	// ErrExchange is the catch-all venue failure
	ErrExchange = errors.New("exchange error")

	// ErrCredentialsUnset is returned before any request is built when an
	// authenticated call has no credentials to sign with
	ErrCredentialsUnset = fmt.Errorf("%w: credentials unset", ErrAuthentication)

	// ErrSymbolNotFound is returned when a market registry lookup misses
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Error is a classified venue failure. It retains the raw code, message and
// response body for diagnostics and unwraps to its failure kind sentinel.
type Error struct {
	Exchange string
	Code     string
	Message  string
	Raw      []byte
	Err      error
}

// NewError returns a classified venue failure
func NewError(exch, code, message string, raw []byte, kind error) *Error {
	return &Error{Exchange: exch, Code: code, Message: message, Raw: raw, Err: kind}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v (code %q: %s)", e.Exchange, e.Err, e.Code, e.Message)
}

// Unwrap returns the failure kind sentinel for errors.Is checks
func (e *Error) Unwrap() error { return e.Err }
