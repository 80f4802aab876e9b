package answer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ppiankov/chatnow/internal/metrics"
	"github.com/ppiankov/chatnow/internal/util"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("API key is not configured")

	// ErrUnknownBackend is returned by New for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown backend")
)

// TransportError reports that the request never produced an HTTP response
// (DNS, connection refused, timeout, cancelled context).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports a non-success HTTP status from the remote service.
// StatusCode is 0 when the backend does not expose it.
type APIError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api: %v", e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

func (e *APIError) Unwrap() error { return e.Err }

// MalformedResponseError reports a response body without the expected reply field.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed response: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Kind classifies err into one of the metrics outcome labels.
func Kind(err error) string {
	var (
		transport *TransportError
		api       *APIError
		malformed *MalformedResponseError
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &transport):
		return metrics.OutcomeTransport
	case errors.As(err, &api):
		return metrics.OutcomeAPI
	case errors.As(err, &malformed):
		return metrics.OutcomeMalformed
	default:
		return "unknown"
	}
}

// redactedError keeps the cause reachable for errors.Is while hiding secrets in the text.
type redactedError struct {
	msg string
	err error
}

func redacted(err error, r *util.Redactor) error {
	return &redactedError{msg: r.String(err.Error()), err: err}
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }
