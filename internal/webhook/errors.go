package webhook

import "errors"

// Verification failures. Internal logs may distinguish them; the HTTP layer
// maps all of them to one uniform rejection response.
var (
	ErrMissingSignature    = errors.New("signature header is required")
	ErrMalformedSignature  = errors.New("signature header is malformed")
	ErrSignatureMismatch   = errors.New("signature does not match payload")
	ErrExpired             = errors.New("signature timestamp outside allowed tolerance")
	ErrMisconfiguredSecret = errors.New("webhook secret is not configured")
	ErrMalformedPayload    = errors.New("event payload is malformed")
)

// TransientError marks a handler failure as retry-eligible: the HTTP layer
// surfaces it as a failure status so the processor's redelivery kicks in.
// Anything not wrapped in TransientError is terminal and gets acknowledged.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as retry-eligible. Returns nil if err is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}
