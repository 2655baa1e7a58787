package client

import "fmt"

// APIError represents an error returned by the API
type APIError struct {
	StatusCode int                    `json:"-"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("API error: %s (status: %d)", e.Message, e.StatusCode)
}

// IsNotFound returns true for a 404 response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsConflict returns true for a 409 response
func (e *APIError) IsConflict() bool {
	return e.StatusCode == 409
}

// IsValidationError returns true for a 400 response
func (e *APIError) IsValidationError() bool {
	return e.StatusCode == 400
}

// IsUnauthorized returns true for a 401 response
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401
}

// IsServerError returns true for a 5xx response
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}
