// Package errors defines standard error types used throughout the application.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrParse indicates that the input document is not well-formed YAML or JSON.
	ErrParse = errors.New("parse failure")
	// ErrUnresolvedRef indicates a $ref pointer whose target does not exist.
	ErrUnresolvedRef = errors.New("unresolved reference")
	// ErrExternalRef indicates a $ref pointing outside the document.
	ErrExternalRef = errors.New("external reference rejected")
	// ErrMalformedRef indicates a $ref that is not a components pointer.
	ErrMalformedRef = errors.New("malformed reference")
	// ErrInvalidIR indicates that a lowered specification violates an IR invariant.
	ErrInvalidIR = errors.New("invalid intermediate representation")
	// ErrConfig indicates an invalid configuration document.
	ErrConfig = errors.New("invalid configuration")
	// ErrUnknownGenerator indicates a configured generator id that is not registered.
	ErrUnknownGenerator = errors.New("unknown generator")
	// ErrUnsupportedLayout indicates a layout the generator does not implement.
	ErrUnsupportedLayout = errors.New("unsupported layout")
	// ErrEmission indicates an unexpected IR shape inside an emitter (internal bug).
	ErrEmission = errors.New("emission failure")
)

// ParseError represents a syntax error in the input document, with location information.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

// Error returns the string representation of the parse error.
func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("parse error at line %d, col %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Message)
}

// Unwrap returns the parse sentinel for use with errors.Is.
func (e *ParseError) Unwrap() error { return ErrParse }

// RefError represents a reference resolution failure at a specific pointer.
type RefError struct {
	// Kind is one of ErrUnresolvedRef, ErrExternalRef, ErrMalformedRef.
	Kind error
	// Pointer is the offending $ref value.
	Pointer string
}

// Error returns the string representation of the reference error.
func (e *RefError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Pointer)
}

// Unwrap returns the underlying sentinel.
func (e *RefError) Unwrap() error { return e.Kind }

// ValidationError represents an IR invariant violation.
type ValidationError struct {
	// Kind names the violated invariant (e.g. "duplicate-field").
	Kind string
	// Path locates the violation inside the IR (e.g. "schemas/Pet/fields/id").
	Path string
}

// Error returns the string representation of the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid IR (%s) at %s", e.Kind, e.Path)
}

// Unwrap returns the IR sentinel.
func (e *ValidationError) Unwrap() error { return ErrInvalidIR }

// ConfigError represents an invalid configuration document.
type ConfigError struct {
	Field   string
	Message string
}

// Error returns the string representation of the configuration error.
func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %s", e.Message)
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Unwrap returns the config sentinel.
func (e *ConfigError) Unwrap() error { return ErrConfig }

// GeneratorError represents a failure reported by a code generator.
type GeneratorError struct {
	// Kind is one of ErrUnknownGenerator, ErrUnsupportedLayout, ErrEmission.
	Kind error
	// Generator is the generator id.
	Generator string
	Message   string
}

// Error returns the string representation of the generator error.
func (e *GeneratorError) Error() string {
	return fmt.Sprintf("generator %s: %v: %s", e.Generator, e.Kind, e.Message)
}

// Unwrap returns the underlying sentinel.
func (e *GeneratorError) Unwrap() error { return e.Kind }

// Is wraps errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
