package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrInvalidResponse is returned when a response body cannot be parsed
	// as the expected JSON shape.
	ErrInvalidResponse = errors.New("invalid API response")
)

// APIError represents a non-2xx response from the platform API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("API %s error (status %d): %s: %v",
			classifyStatus(e.StatusCode), e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("API %s error (status %d): %s",
		classifyStatus(e.StatusCode), e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// errorBody is the JSON error envelope the API uses for failures.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// errorFromResponse builds an *APIError from an error response, pulling the
// message out of the body when it parses.
func errorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    resp.Status,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if err != nil {
		return apiErr
	}

	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error.Message != "" {
		apiErr.Message = eb.Error.Message
	}

	return apiErr
}
