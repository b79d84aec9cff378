// Package apperrors defines the error taxonomy shared by every request path
// and the uniform envelope returned to clients.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindValidation
	KindConflict
	KindNotFound
	KindUnavailable
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate limited"
	}
	return "internal"
}

// Status is the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func (k Kind) code() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHORIZED"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindConflict:
		return "CONFLICT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindUnavailable:
		return "DATABASE_UNAVAILABLE"
	case KindRateLimited:
		return "RATE_LIMITED"
	}
	return "SERVER_ERROR"
}

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgValidation         = "Please check your input and try again"
	MsgNotFound           = "The requested resource was not found"
	MsgConflict           = "This information is already in use"
	MsgUnavailable        = "Our service is temporarily unavailable. Please try again in a moment"
	MsgServer             = "Something went wrong on our end. Please try again"
	MsgRateLimited        = "Too many requests. Please try again later"
)

// Error is a domain error. Message is safe to show to clients; Err holds the
// underlying cause and is only ever logged.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthenticated(msg string) *Error {
	if msg == "" {
		msg = MsgInvalidCredentials
	}
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func Validation(msg string, fields map[string]string) *Error {
	if msg == "" {
		msg = MsgValidation
	}
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func Conflict(msg string) *Error {
	if msg == "" {
		msg = MsgConflict
	}
	return &Error{Kind: KindConflict, Message: msg}
}

func NotFound(msg string) *Error {
	if msg == "" {
		msg = MsgNotFound
	}
	return &Error{Kind: KindNotFound, Message: msg}
}

func Unavailable(err error) *Error {
	return &Error{Kind: KindUnavailable, Message: MsgUnavailable, Err: err}
}

func RateLimited() *Error {
	return &Error{Kind: KindRateLimited, Message: MsgRateLimited}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgServer, Err: err}
}

// WithCode overrides the default code for the error's kind.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for non-domain errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// Envelope is the response body for every failed request.
type Envelope struct {
	Error      string            `json:"error"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"statusCode"`
	Fields     map[string]string `json:"fields,omitempty"`
	Details    string            `json:"details,omitempty"`
	Timestamp  string            `json:"timestamp"`
}

// Format converts err into an Envelope. Errors outside the taxonomy are
// reported as internal errors with a generic message.
func Format(err error, now time.Time) Envelope {
	e, ok := As(err)
	if !ok {
		e = Internal(err)
	}
	code := e.Code
	if code == "" {
		code = e.Kind.code()
	}
	msg := e.Message
	switch e.Kind {
	case KindInternal:
		msg = MsgServer
	case KindUnavailable:
		msg = MsgUnavailable
	}
	return Envelope{
		Error:      msg,
		Message:    msg,
		Code:       code,
		StatusCode: e.Kind.Status(),
		Fields:     e.Fields,
		Timestamp:  now.UTC().Format(time.RFC3339),
	}
}
