package errors

import (
	"errors"
	"fmt"
)

// sentinel errors for the core pipeline; callers match with errors.Is
var (
	// a workspace, data source, document, template, or connector is missing
	ErrNotFound = errors.New("not found")

	// a connector refused to resolve a path outside its configured root
	ErrAccessDenied = errors.New("access denied")
)

// NotFoundError carries the kind of resource that was missing.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}

	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFound builds a NotFoundError for the given resource kind.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// AccessDeniedError reports a rejected path resolution.
type AccessDeniedError struct {
	Path string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: path %q escapes the configured root", e.Path)
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}
