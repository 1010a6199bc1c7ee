package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error types for the remap system
type ErrorType string

const (
	// Input errors
	ErrorTypeLoad       ErrorType = "load"
	ErrorTypeDescriptor ErrorType = "descriptor"
	ErrorTypeModel      ErrorType = "model"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// ErrAlreadyMatched is returned when a match relation is set a second time
var ErrAlreadyMatched = errors.New("entity already matched")

// ErrSideMismatch is returned when both ends of a match belong to the same group
var ErrSideMismatch = errors.New("match endpoints must belong to different groups")

// LoadError represents a failure reading or decoding a group snapshot
type LoadError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewLoadError creates a new load error
func NewLoadError(op, path string, err error) *LoadError {
	return &LoadError{
		Type:       ErrorTypeLoad,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *LoadError) Unwrap() error {
	return e.Underlying
}

// DescriptorError represents a malformed type or method descriptor
type DescriptorError struct {
	Descriptor string
	Offset     int
	Reason     string
}

// NewDescriptorError creates a new descriptor error
func NewDescriptorError(desc string, offset int, reason string) *DescriptorError {
	return &DescriptorError{Descriptor: desc, Offset: offset, Reason: reason}
}

// Error implements the error interface
func (e *DescriptorError) Error() string {
	return fmt.Sprintf("invalid descriptor %q at offset %d: %s", e.Descriptor, e.Offset, e.Reason)
}

// ModelError reports an inconsistent entity model (dangling owner, duplicate member)
type ModelError struct {
	Entity string
	Reason string
}

// NewModelError creates a new model error
func NewModelError(entity, reason string) *ModelError {
	return &ModelError{Entity: entity, Reason: reason}
}

// Error implements the error interface
func (e *ModelError) Error() string {
	return fmt.Sprintf("model error for %s: %s", e.Entity, e.Reason)
}

// ConfigError represents a configuration error
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
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// ContractViolation is the panic value for broken programming contracts inside the
// comparison core, e.g. a jump target outside its instruction sequence. These indicate
// an inconsistent entity model and are never recovered or retried.
type ContractViolation struct {
	Op     string
	Detail string
}

// Violation builds a ContractViolation for use with panic
func Violation(op, format string, args ...interface{}) *ContractViolation {
	return &ContractViolation{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Error implements the error interface
func (e *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Detail)
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrOrNil returns nil when no errors were collected
func (e *MultiError) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
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
