package nbapi

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestFailed matches every *RequestFailedError via errors.Is.
	ErrRequestFailed = errors.New("request failed")
	// ErrNotFound matches every *NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
)

// RequestFailedError reports a transport failure or a non-2xx response.
// Status is zero when no response was received.
type RequestFailedError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RequestFailedError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("request failed: %s %s: server sent %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Is lets errors.Is(err, ErrRequestFailed) match.
func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }

// NotFoundError reports a reference to a record the mock does not hold.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no such %s id %s", e.Resource, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func personNotFound(id int) error {
	return &NotFoundError{Resource: "person", ID: fmt.Sprint(id)}
}
