package errs

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey   = errors.New("judge0: api key is not configured")
	ErrMissingEndpoint = errors.New("judge0: endpoint is not configured")
	ErrRateLimited     = errors.New("submission rate limit exceeded")
)

// TransportError reports that no usable response came back from the judge:
// dial, DNS, timeout, reset, or a body that could not be read or decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("judge0 %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying cause was a timeout.
func (e *TransportError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// RemoteServiceError is a non-2xx answer from the judge, passed through
// without interpretation.
type RemoteServiceError struct {
	StatusCode int
	Body       []byte
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("judge0 returned HTTP %d: %s", e.StatusCode, string(e.Body))
}
