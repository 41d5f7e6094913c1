package domain

import (
	"errors"
	"fmt"
)

// PrintErrorKind names the failure classes a printer endpoint can report.
type PrintErrorKind string

const (
	PrintUnreachable PrintErrorKind = "unreachable"
	PrintTimeout     PrintErrorKind = "timeout"
	PrintDeviceFault PrintErrorKind = "device_fault"
)

// PrintError is returned by a printer endpoint when a receipt could not be
// delivered. It drives the dispatcher's retry state and never escalates to
// the order submitter.
type PrintError struct {
	Kind     PrintErrorKind
	Endpoint string
	Err      error
}

func (e *PrintError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("printer %s: %s: %v", e.Endpoint, e.Kind, e.Err)
	}
	return fmt.Sprintf("printer %s: %s", e.Endpoint, e.Kind)
}

func (e *PrintError) Unwrap() error { return e.Err }

// PersistenceError wraps a store failure. It is logged and degraded to the
// CSV fallback record; it never prevents an order from being queued.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrUsernameTaken   = errors.New("username already exists")
)
