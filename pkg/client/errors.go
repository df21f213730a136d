package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is a response whose status was not the one the call expected.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus returns the status code.
func (e *HTTPError) HTTPStatus() int { return e.StatusCode }

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// expectStatus turns any status other than one of want into an HTTPError.
func expectStatus(resp *Response, want ...int) error {
	for _, code := range want {
		if resp.StatusCode == code {
			return nil
		}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
}

// expectOK accepts any 2xx status.
func expectOK(resp *Response) error {
	if resp.OK() {
		return nil
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
}

func errorMessage(body json.RawMessage) string {
	if len(body) == 0 {
		return ""
	}
	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		if apiErr.Error != "" {
			return apiErr.Error
		}
		return apiErr.Message
	}
	return ""
}
