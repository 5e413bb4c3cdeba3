package errors

import "fmt"

// APIError is the JSON body every endpoint returns on failure. The
// message is serialized under "error" so existing clients keep working.
type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// BadRequest reports a malformed or unacceptable request parameter.
func BadRequest(message string) *APIError {
	return &APIError{Code: CodeBadRequest, Message: message}
}

// Unauthorized reports missing or failed authentication.
func Unauthorized(message string) *APIError {
	return &APIError{Code: CodeUnauthorized, Message: message}
}

// NotFound reports a missing resource.
func NotFound(resource string) *APIError {
	return &APIError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// Internal reports a server-side failure. The message should stay
// generic; details belong in the logs.
func Internal(message string) *APIError {
	return &APIError{Code: CodeInternal, Message: message}
}
