package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound      = errors.New("domain: not found")
	ErrUnauthorized  = errors.New("domain: unauthorized")
	ErrNotAuthorized = errors.New("domain: not authorized")
	ErrSchema        = errors.New("domain: schema violation")
	ErrUpstream      = errors.New("domain: upstream failure")
)

// SchemaError reports a malformed permission model or ledger record.
// It is never retryable.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "schema: " + e.Reason
	}
	return fmt.Sprintf("schema: %s: %s", e.Field, e.Reason)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// NotAuthorizedError is returned when the acting identity lacks an intent.
// It carries only the identity and the denied intent.
type NotAuthorizedError struct {
	UserID         string
	OrganizationID string
	Intent         Intent
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("user %q (organization %q) is not authorized for intent %q", e.UserID, e.OrganizationID, e.Intent)
}

func (e *NotAuthorizedError) Is(target error) bool { return target == ErrNotAuthorized }

// UpstreamError wraps a ledger or blob store failure with the identifiers
// of the resource being read.
type UpstreamError struct {
	Op             string
	WorkflowitemID string
	DocumentID     string
	Err            error
}

func (e *UpstreamError) Error() string {
	msg := e.Op
	if e.DocumentID != "" {
		msg += fmt.Sprintf(": could not get document %s", e.DocumentID)
		if e.WorkflowitemID != "" {
			msg += " of workflowitem " + e.WorkflowitemID
		}
	} else if e.WorkflowitemID != "" {
		msg += ": could not get workflowitem " + e.WorkflowitemID
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
