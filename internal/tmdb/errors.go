package tmdb

import "fmt"

// ValidationError reports malformed caller input. It is returned before any
// network I/O is attempted and is never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// TransportError reports a request that never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("client error: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// APIErrorKind classifies upstream error responses by status code.
type APIErrorKind string

const (
	KindInvalidRequest       APIErrorKind = "invalid_request"       // 400
	KindAuthenticationFailed APIErrorKind = "authentication_failed" // 401
	KindNotFound             APIErrorKind = "not_found"             // 404
	KindRateLimited          APIErrorKind = "rate_limited"          // 429
	KindServerError          APIErrorKind = "server_error"          // 5xx
	KindUnknown              APIErrorKind = "unknown"
)

// APIError reports a non-2xx response from the upstream API.
type APIError struct {
	Kind   APIErrorKind
	Status int
	Body   string
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindInvalidRequest:
		return "invalid request, please check your input"
	case KindAuthenticationFailed:
		return "authentication failed, please check your API key"
	case KindNotFound:
		return "resource not found"
	case KindRateLimited:
		return "too many requests, please try again later"
	case KindServerError:
		return "server error, please try again later"
	default:
		return fmt.Sprintf("server error: %d %s", e.Status, e.Body)
	}
}

// classifyStatus maps an HTTP status to an APIError.
func classifyStatus(status int, body string) *APIError {
	kind := KindUnknown
	switch {
	case status == 400:
		kind = KindInvalidRequest
	case status == 401:
		kind = KindAuthenticationFailed
	case status == 404:
		kind = KindNotFound
	case status == 429:
		kind = KindRateLimited
	case status >= 500 && status <= 599:
		kind = KindServerError
	}
	return &APIError{Kind: kind, Status: status, Body: body}
}
