package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an API failure. The kind decides both the user-facing
// message and whether the client may retry (reads only, see Client.get).
type Kind string

const (
	// KindUnauthorized is a 401: the session is dead. The client clears the
	// stored session and the caller must re-authenticate. Never retried.
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden is a 403: authenticated but not allowed.
	KindForbidden Kind = "forbidden"
	// KindNotFound is a 404.
	KindNotFound Kind = "not_found"
	// KindValidation is a 422 carrying per-field messages.
	KindValidation Kind = "validation"
	// KindUnavailable is a 503: transient overload, retryable for reads.
	KindUnavailable Kind = "unavailable"
	// KindServer is any other 5xx.
	KindServer Kind = "server"
	// KindNetwork is a transport failure with no HTTP status, retryable
	// for reads.
	KindNetwork Kind = "network"
	// KindRequest is any remaining 4xx.
	KindRequest Kind = "request"
)

// Error is the typed failure returned by every Client call.
type Error struct {
	Kind       Kind
	StatusCode int
	// Fields holds per-field validation messages for KindValidation.
	Fields map[string][]string
	// Detail is the backend-provided error string, when present.
	Detail string
	// Cause is the underlying transport error for KindNetwork.
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s", e.Message())
}

func (e *Error) Unwrap() error { return e.Cause }

// Message is the user-facing rendering of the failure. Validation errors
// surface the backend's literal messages, joined when there are several.
func (e *Error) Message() string {
	switch e.Kind {
	case KindUnauthorized:
		return "your session has expired, please sign in again"
	case KindForbidden:
		return "you do not have permission to do that"
	case KindNotFound:
		return "not found"
	case KindValidation:
		msgs := make([]string, 0, len(e.Fields))
		fields := make([]string, 0, len(e.Fields))
		for f := range e.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			if len(e.Fields[f]) > 0 {
				msgs = append(msgs, e.Fields[f][0])
			}
		}
		if len(msgs) == 0 && e.Detail != "" {
			return e.Detail
		}
		return strings.Join(msgs, "; ")
	case KindUnavailable:
		return "the server is temporarily unavailable"
	case KindServer:
		return "something went wrong on the server"
	case KindNetwork:
		return "could not reach the server"
	default:
		if e.Detail != "" {
			return e.Detail
		}
		return "request failed"
	}
}

// Retryable reports whether the failure may be retried. Only transient
// overload and transport failures qualify, and only read requests use it.
func (e *Error) Retryable() bool {
	return e.Kind == KindUnavailable || e.Kind == KindNetwork
}

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusServiceUnavailable:
		return KindUnavailable
	case status >= 500:
		return KindServer
	default:
		return KindRequest
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// netError wraps a transport failure as an *Error.
func netError(err error) *Error {
	return &Error{Kind: KindNetwork, Cause: err}
}
