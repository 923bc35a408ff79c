// Package errors provides standardized error types and helpers for the twlforge codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidSchema indicates a table whose header does not satisfy the TWL schema
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidStructure indicates a row that is wider than its header
	ErrInvalidStructure = errors.New("invalid structure")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
)

// SchemaError reports a missing or malformed core column in a TWL table.
// A table producing a SchemaError must not be passed on to reconciliation.
type SchemaError struct {
	Column  string // Column name involved (e.g. "TWLink"), if known
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema error on column %s: %s", e.Column, e.Message)
	}
	return fmt.Sprintf("schema error: %s", e.Message)
}

func (e *SchemaError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidSchema
}

// StructureError reports a data row carrying more cells than the header has
// columns. The softer case, fewer cells than columns, is not an error: short
// rows are padded.
type StructureError struct {
	Line  int // 1-based line number of the offending row
	Cells int // Number of cells found
	Width int // Number of columns the header allows
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("row %d has %d columns, header allows %d", e.Line, e.Cells, e.Width)
}

func (e *StructureError) Unwrap() error {
	return ErrInvalidStructure
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "TSV", "USX", "reference")
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "branch", "document", "blob")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for creating common errors

// NewSchema creates a SchemaError
func NewSchema(column, message string) *SchemaError {
	return &SchemaError{
		Column:  column,
		Message: message,
	}
}

// NewStructure creates a StructureError
func NewStructure(line, cells, width int) *StructureError {
	return &StructureError{
		Line:  line,
		Cells: cells,
		Width: width,
	}
}

// NewParse creates a ParseError
func NewParse(format, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Message: message,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
