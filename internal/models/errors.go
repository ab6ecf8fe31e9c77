package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("source not found")
	ErrUpstream     = errors.New("upstream provider failed")
	ErrNotification = errors.New("video server notification failed")
)

// NotFoundError is returned when no source matches a search text or ID.
// Its message is shown to users as is.
type NotFoundError struct {
	Query string
	msg   string
}

// NewNotFoundError builds a NotFoundError for query with a user facing message
func NewNotFoundError(query, format string, args ...any) *NotFoundError {
	return &NotFoundError{Query: query, msg: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("could not find a YouTube source for %s", e.Query)
	}
	return e.msg
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UpstreamError wraps a failed call to the video metadata provider
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("youtube %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// NotificationError wraps a failed or timed out video server notification
type NotificationError struct {
	Server string
	Err    error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify video server %s: %v", e.Server, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

func (e *NotificationError) Is(target error) bool { return target == ErrNotification }
