package davis

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable covers transport failures and timeouts.
	ErrUnreachable = errors.New("weatherlink unreachable")
	// ErrHTTPStatus is returned for any non-2xx response.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrMalformedPayload is returned when the body is not a valid
	// current_conditions envelope.
	ErrMalformedPayload = errors.New("malformed current_conditions payload")
)

// FetchError describes why a fetch produced no report. Kind is one of the
// sentinel errors above, so errors.Is(err, ErrHTTPStatus) matches.
type FetchError struct {
	Kind       error
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: %d", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *FetchError) Is(target error) bool {
	return target == e.Kind
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func unreachable(err error) error {
	return &FetchError{Kind: ErrUnreachable, Err: err}
}

func malformed(format string, args ...any) error {
	return &FetchError{Kind: ErrMalformedPayload, Err: fmt.Errorf(format, args...)}
}
