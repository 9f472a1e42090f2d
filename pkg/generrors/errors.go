// Package generrors defines the error taxonomy of a generation run.
//
// Structural errors (DocumentError, ReferenceError, ConfigError, IOError) abort the
// run. Item-level problems (SchemaError, OperationError) are accumulated as warnings
// in a Collector and never stop generation.
//
// Every type matches its sentinel through errors.Is:
//
//	if errors.Is(err, generrors.ErrReference) {
//	    // unresolved or unsafely cyclic $ref
//	}
package generrors

import (
	"errors"
	"fmt"
)

var (
	// ErrDocument matches any DocumentError.
	ErrDocument = errors.New("document error")

	// ErrReference matches any ReferenceError.
	ErrReference = errors.New("reference error")

	// ErrCircularReference matches a ReferenceError with IsCircular set.
	ErrCircularReference = errors.New("circular reference")

	// ErrMalformedSchema matches a ReferenceError with IsMalformed set.
	ErrMalformedSchema = errors.New("malformed schema")

	// ErrSchema matches any SchemaError.
	ErrSchema = errors.New("schema error")

	// ErrOperation matches any OperationError.
	ErrOperation = errors.New("operation error")

	// ErrIO matches any IOError.
	ErrIO = errors.New("io error")

	// ErrConfig matches any ConfigError.
	ErrConfig = errors.New("configuration error")
)

// DocumentError reports a malformed or unsupported input document.
type DocumentError struct {
	// Source is the file path or URL of the document, when known
	Source  string
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	msg := "document error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DocumentError) Unwrap() error { return e.Cause }

func (e *DocumentError) Is(target error) bool { return target == ErrDocument }

// ReferenceError reports a $ref that cannot be turned into a safe schema graph.
type ReferenceError struct {
	// Ref is the reference (or JSON pointer of the schema) that failed
	Ref string
	// IsCircular is set when the reference closes a cycle that cannot be named
	IsCircular bool
	// IsMalformed is set when the target exists but is not a usable schema
	IsMalformed bool
	Message     string
	Cause       error
}

func (e *ReferenceError) Error() string {
	msg := "reference error"
	switch {
	case e.IsCircular:
		msg = "circular reference"
	case e.IsMalformed:
		msg = "malformed schema"
	}
	if e.Ref != "" {
		msg += fmt.Sprintf(" %q", e.Ref)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ReferenceError) Unwrap() error { return e.Cause }

func (e *ReferenceError) Is(target error) bool {
	switch target {
	case ErrReference:
		return true
	case ErrCircularReference:
		return e.IsCircular
	case ErrMalformedSchema:
		return e.IsMalformed
	}
	return false
}

// SchemaError reports a schema construct that was degraded to the escape-hatch type.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error at %s: %s", e.Path, e.Message)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// OperationError reports an operation element that was skipped or degraded.
type OperationError struct {
	// Operation is "METHOD /path"
	Operation string
	Path      string
	Message   string
}

func (e *OperationError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("operation error in %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("operation error at %s: %s", e.Path, e.Message)
}

func (e *OperationError) Is(target error) bool { return target == ErrOperation }

// IOError reports a failure persisting generated artifacts.
type IOError struct {
	Path  string
	Op    string
	Cause error
}

func (e *IOError) Error() string {
	msg := "io error"
	if e.Op != "" {
		msg += " during " + e.Op
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *IOError) Unwrap() error { return e.Cause }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// ConfigError reports invalid configuration or options.
type ConfigError struct {
	Option  string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Cause }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
