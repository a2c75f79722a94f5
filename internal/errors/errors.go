// Package errors provides the structured error types used across the
// grammarsync flows. Every core failure is terminal for the run: there is no
// warning tier and no retry tier, so these types carry enough context for the
// operator to fix the registry entry or wait for upstream repair.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeRegistry ErrorType = "registry"
	ErrorTypeVCS      ErrorType = "vcs"
	ErrorTypeNetwork  ErrorType = "network"
	ErrorTypeIO       ErrorType = "io"
	ErrorTypeConfig   ErrorType = "config"
)

// Error codes for the fatal failure kinds the flows can produce.
const (
	CodeParseFailure     = "PARSE_FAILURE"
	CodeMissingSection   = "MISSING_SECTION"
	CodeOrphanedPin      = "ORPHANED_PIN"
	CodeMissingScopeName = "MISSING_SCOPE_NAME"
	CodeUnknownSource    = "UNKNOWN_SOURCE"
	CodeInvalidRegistry  = "INVALID_REGISTRY"
)

// SyncError is a structured error with source and path context.
type SyncError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Source  string
	Path    string
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Source != "" {
		parts = append(parts, "source:"+e.Source)
	}

	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *SyncError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *SyncError) Is(target error) bool {
	var t *SyncError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithSource adds the tracked-source name to the error.
func (e *SyncError) WithSource(source string) *SyncError {
	e.Source = source

	return e
}

// WithPath adds the offending file path to the error.
func (e *SyncError) WithPath(path string) *SyncError {
	e.Path = path

	return e
}

// NewParseFailure reports that no format strategy decoded a grammar file.
// The attempts slice holds one diagnostic per strategy, in dispatch order.
func NewParseFailure(path string, attempts []error) *SyncError {
	return &SyncError{
		Type:    ErrorTypeParse,
		Code:    CodeParseFailure,
		Message: "no format strategy decoded the grammar",
		Cause:   errors.Join(attempts...),
		Path:    path,
	}
}

// NewMissingSection reports that a license fragment heading was not found.
func NewMissingSection(path, fragment string) *SyncError {
	return &SyncError{
		Type:    ErrorTypeParse,
		Code:    CodeMissingSection,
		Message: fmt.Sprintf("no heading starts with %q", fragment),
		Path:    path,
	}
}

// NewOrphanedPin reports a pinned commit unreachable from any remote branch,
// typically after an upstream history rewrite.
func NewOrphanedPin(source, pin string) *SyncError {
	return &SyncError{
		Type:    ErrorTypeVCS,
		Code:    CodeOrphanedPin,
		Message: fmt.Sprintf("pinned commit %s is not contained in any branch", pin),
		Source:  source,
	}
}

// NewMissingScopeName reports a parsed grammar lacking its identity field.
func NewMissingScopeName(path string) *SyncError {
	return &SyncError{
		Type:    ErrorTypeParse,
		Code:    CodeMissingScopeName,
		Message: "grammar has no scopeName string field",
		Path:    path,
	}
}

// NewUnknownSource reports a name filter that matches no registry entry.
func NewUnknownSource(name string) *SyncError {
	return &SyncError{
		Type:    ErrorTypeRegistry,
		Code:    CodeUnknownSource,
		Message: "source is not in the registry",
		Source:  name,
	}
}

// NewInvalidRegistry reports a registry file that fails validation.
func NewInvalidRegistry(message string) *SyncError {
	return &SyncError{
		Type:    ErrorTypeRegistry,
		Code:    CodeInvalidRegistry,
		Message: message,
	}
}

// IsCode reports whether err is a SyncError carrying the given code.
func IsCode(err error, code string) bool {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Code == code
	}

	return false
}
