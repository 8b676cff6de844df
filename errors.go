package maw

import (
	"errors"
	"net/http"
)

// Error represents a structured error that maps to an HTTP response.
// Handlers may return it (or wrap it) to control the status code the
// dispatcher uses when nothing has been written yet.
type Error struct {
	Status  int            `json:"-"`                 // HTTP status code (not in JSON)
	Code    string         `json:"code"`              // Machine-readable error code
	Message string         `json:"message"`           // Human-readable message
	Details map[string]any `json:"details,omitempty"` // Optional context
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// WithMessage returns a copy of the error with a custom message.
func (e Error) WithMessage(message string) Error {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e Error) WithDetails(details map[string]any) Error {
	e.Details = details
	return e
}

// Predefined HTTP errors using http.StatusText for default messages.
var (
	ErrBadRequest          = Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: http.StatusText(http.StatusBadRequest)}
	ErrUnauthorized        = Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: http.StatusText(http.StatusUnauthorized)}
	ErrForbidden           = Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: http.StatusText(http.StatusForbidden)}
	ErrNotFoundHTTP        = Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: http.StatusText(http.StatusNotFound)}
	ErrTooManyRequests     = Error{Status: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS", Message: http.StatusText(http.StatusTooManyRequests)}
	ErrPayloadTooLarge     = Error{Status: http.StatusRequestEntityTooLarge, Code: "PAYLOAD_TOO_LARGE", Message: http.StatusText(http.StatusRequestEntityTooLarge)}
	ErrInternalServerError = Error{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: http.StatusText(http.StatusInternalServerError)}
)

// Pattern compile errors, surfaced at build time.
var (
	ErrInvalidPattern   = errors.New("routing pattern must begin with '/'")
	ErrEmptyParam       = errors.New("route param name must not be empty")
	ErrDuplicateParam   = errors.New("routing pattern contains duplicate param key")
	ErrParamDelimiter   = errors.New("route param closing delimiter '}' is missing")
	ErrWildcardPosition = errors.New("wildcard '*' must be the last segment in a pattern")
)

// Router build errors, surfaced at finalize time.
var (
	ErrDuplicateRoute = errors.New("duplicate method and pattern registration")
	ErrNoHandlers     = errors.New("route registered without handlers")
	ErrInvalidMethod  = errors.New("invalid http method")
	ErrInvalidPrefix  = errors.New("group prefix must start with '/' and not end with '/'")
)

// Request-time errors surfaced to handlers.
var (
	ErrMissingParam     = errors.New("path param not found")
	ErrInvalidParam     = errors.New("failed to parse path param")
	ErrBodyLimit        = errors.New("request body exceeds configured limit")
	ErrNotFound         = errors.New("route not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
)
