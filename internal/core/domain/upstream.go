package domain

import "fmt"

// UpstreamError marks a failure inside an external collaborator (document
// store or identity gateway). The boundary wraps the cause so the HTTP layer
// can surface the originating message with a 500 instead of a generic one.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream wraps err as an UpstreamError. Returns nil when err is nil.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}
