package oic

import (
	"fmt"
	"net/http"
)

// Kind classifies an upstream or local failure for response shaping.
type Kind string

const (
	// KindAuth is a definitive authentication failure: a non-2xx from the
	// token endpoint, or two consecutive 401s with a fresh token.
	KindAuth Kind = "authentication"
	// KindPermission is a 403 from a resource endpoint.
	KindPermission Kind = "permission_denied"
	// KindNotFound is a 404 from a resource endpoint.
	KindNotFound Kind = "not_found"
	// KindUpstream is any other non-2xx from a resource endpoint.
	KindUpstream Kind = "upstream"
	// KindTransport is a DNS, TCP, TLS, or read failure before a complete
	// response was received.
	KindTransport Kind = "transport"
	// KindCancelled is a deadline expiry or caller disconnect.
	KindCancelled Kind = "cancelled"
)

// Error is a classified upstream failure. Status, StatusText, and Body are
// populated for HTTP-level failures; transport failures carry only Cause.
type Error struct {
	Kind       Kind
	Status     int
	StatusText string
	Body       string
	Cause      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAuth:
		return fmt.Sprintf("Authentication failed (%d): %s", e.Status, e.Body)
	case KindPermission:
		return fmt.Sprintf("Permission denied (403): %s", e.Body)
	case KindNotFound:
		return fmt.Sprintf("Resource not found (404): %s", e.Body)
	case KindTransport:
		return fmt.Sprintf("upstream transport failure: %v", e.Cause)
	case KindCancelled:
		return "request cancelled"
	default:
		return fmt.Sprintf("%d %s - %s", e.Status, e.StatusText, e.Body)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// classifyStatus maps a non-2xx resource response to an Error.
func classifyStatus(status int, body string) *Error {
	e := &Error{
		Status:     status,
		StatusText: http.StatusText(status),
		Body:       body,
	}
	switch status {
	case http.StatusUnauthorized:
		e.Kind = KindAuth
	case http.StatusForbidden:
		e.Kind = KindPermission
	case http.StatusNotFound:
		e.Kind = KindNotFound
	default:
		e.Kind = KindUpstream
	}
	return e
}
