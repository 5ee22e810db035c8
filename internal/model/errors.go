package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched with errors.Is for any lookup that found no document
var ErrNotFound = errors.New("comprobante not found")

// Render stages reported by RenderError
const (
	StageCompose = "compose"
	StageAcquire = "acquire"
	StagePrint   = "print"
	StageVerify  = "verify"
)

// NotFoundError reports that no document matches a key
type NotFoundError struct {
	Key DocumentKey
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("comprobante %s not found", e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(key DocumentKey) *NotFoundError {
	return &NotFoundError{Key: key}
}

// RenderError represents failures turning a document into its printable form
type RenderError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render failed [%s]: %s (%v)", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("render failed [%s]: %s", e.Stage, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new render error
func NewRenderError(stage, message string, cause error) *RenderError {
	return &RenderError{
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}

// UpstreamError represents failures of the document store
type UpstreamError struct {
	Operation string
	Cause     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Operation, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// NewUpstreamError creates a new upstream error
func NewUpstreamError(operation string, cause error) *UpstreamError {
	return &UpstreamError{
		Operation: operation,
		Cause:     cause,
	}
}
