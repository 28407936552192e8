package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is the uniform shape of a failed backend API call, regardless of
// whether the failure was a network fault (Status 0) or a server status
// response.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api call failed: %s", e.Message)
	}
	return fmt.Sprintf("api call failed: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsAuthFailure reports whether the error is an in-flight authorization
// failure (401/403).
func (e *APIError) IsAuthFailure() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// errorBody is the gateway's error response payload.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewAPIErrorFromResponse normalizes a non-2xx HTTP response into an
// APIError, draining and decoding the body on a best-effort basis.
func NewAPIErrorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Message != "" {
			apiErr.Message = eb.Message
		} else if eb.Error != "" {
			apiErr.Message = eb.Error
		}
	}
	return apiErr
}

// NewAPITransportError normalizes a client-side transport fault into an
// APIError with Status 0.
func NewAPITransportError(err error) *APIError {
	return &APIError{Status: 0, Message: "network error", Err: err}
}
