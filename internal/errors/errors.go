package errors

import (
	"fmt"
	"time"
)

// Error types for the pyscope analyzer
type ErrorType string

const (
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeAnalysis ErrorType = "analysis"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// ParseError reports syntactically invalid source. It is the only hard
// failure mode of extraction; the project scan recovers from it by skipping
// the file, direct single-file extraction surfaces it to the caller.
type ParseError struct {
	Type      ErrorType
	Path      string
	Line      int // 1-based line of the first syntax error
	Column    int // 0-based column
	Message   string
	Timestamp time.Time
}

// NewParseError creates a new parse error
func NewParseError(path string, line, column int, message string) *ParseError {
	return &ParseError{
		Type:      ErrorTypeParse,
		Path:      path,
		Line:      line,
		Column:    column,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error in %s at %d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

// ConfigError reports an invalid configuration value. Fatal at construction
// time; analyzers refuse to start with a broken threshold set.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
	}
	return fmt.Sprintf("config error for field %s: %v", e.Field, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	return &FileError{
		Type:       ErrorTypeFileNotFound,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// AnalysisError wraps a failure in a named analysis stage.
type AnalysisError struct {
	Stage      string
	Path       string
	Underlying error
	Timestamp  time.Time
}

// NewAnalysisError creates a new analysis error
func NewAnalysisError(stage, path string, err error) *AnalysisError {
	return &AnalysisError{
		Stage:      stage,
		Path:       path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Underlying)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error, dropping nil entries
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
