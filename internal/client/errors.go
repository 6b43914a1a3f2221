package client

import (
	"fmt"
	"net/http"

	"lg/nutrition-go-api/internal/nutrition"
)

// ErrUnauthorized is returned after a 401 or 403. The session is gone; the
// unauthorized handler has already run.
var ErrUnauthorized = fmt.Errorf("client: %w", nutrition.ErrUnauthorized)

// NetworkError is a transport failure, timeout or 5xx. It is safe to retry;
// the client itself never does.
type NetworkError struct {
	Op         string
	StatusCode int // 0 when no response arrived
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Temporary reports that the request may succeed if repeated.
func (e *NetworkError) Temporary() bool { return true }

// APIError is any other non-2xx response.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// errorBody is the server's error JSON.
type errorBody struct {
	Error  string                 `json:"error"`
	Field  string                 `json:"field"`
	Fields []nutrition.FieldError `json:"fields"`
}

func (b errorBody) validationError() *nutrition.ValidationError {
	if len(b.Fields) > 0 {
		return &nutrition.ValidationError{Errors: b.Fields}
	}
	field := b.Field
	if field == "" {
		field = "request"
	}
	msg := b.Error
	if msg == "" {
		msg = "invalid request"
	}
	return nutrition.NewValidationError(field, msg)
}
