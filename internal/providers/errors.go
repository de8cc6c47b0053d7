// internal/providers/errors.go
package providers

import (
	"errors"
	"fmt"
)

// TransportError is a network, timeout, or backend failure while talking to
// a provider. The resolver treats it as "this tier has no data" and falls
// through; it is never surfaced to the resolver's caller.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FormatError is a malformed or structurally empty provider payload. It is
// handled identically to a clean "no match".
type FormatError struct {
	Provider string
	Msg      string
	Err      error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: bad payload: %s: %v", e.Provider, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: bad payload: %s", e.Provider, e.Msg)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsFormat reports whether err is (or wraps) a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
