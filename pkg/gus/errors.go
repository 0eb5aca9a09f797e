package gus

import "fmt"

// NetworkError is a transport failure: DNS, refused connection, reset.
type NetworkError struct {
	Year int
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("GUS API request for %d failed: %v", e.Year, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError means the per-call deadline expired before a response arrived.
type TimeoutError struct {
	Year int
	Err  error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("GUS API request for %d timed out: %v", e.Year, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response.
type StatusError struct {
	Year       int
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("GUS API error for %d (status %d)", e.Year, e.StatusCode)
	}
	return fmt.Sprintf("GUS API error for %d (status %d): %s", e.Year, e.StatusCode, e.Message)
}

// DecodeError means the body could not be parsed as a variable-data response.
type DecodeError struct {
	Year int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode GUS API response for %d: %v", e.Year, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
