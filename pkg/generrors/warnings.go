package generrors

import (
	"fmt"
	"log/slog"
)

// Category classifies a non-fatal warning.
type Category string

const (
	CategorySchema    Category = "schema"
	CategoryOperation Category = "operation"
)

// Warning is a non-fatal problem recorded during a run.
type Warning struct {
	Category Category
	// Path is the JSON pointer of the offending element
	Path string
	// Operation is "METHOD /path" for operation warnings
	Operation string
	Message   string
}

// String renders the warning for terminal output.
func (w Warning) String() string {
	loc := w.Path
	if w.Operation != "" {
		loc = w.Operation
	}
	return fmt.Sprintf("⚠ %s %s: %s", w.Category, loc, w.Message)
}

// Err returns the typed error matching the warning category.
func (w Warning) Err() error {
	if w.Category == CategoryOperation {
		return &OperationError{Operation: w.Operation, Path: w.Path, Message: w.Message}
	}
	return &SchemaError{Path: w.Path, Message: w.Message}
}

// Collector accumulates warnings in record order, dropping exact duplicates.
// A nil logger is allowed; a nil Collector drops every warning.
type Collector struct {
	logger   *slog.Logger
	seen     map[Warning]struct{}
	warnings []Warning
}

// NewCollector creates an empty Collector that also logs every new warning.
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{logger: logger, seen: map[Warning]struct{}{}}
}

// Schema records a SchemaError warning.
func (c *Collector) Schema(path, format string, args ...any) {
	c.add(Warning{Category: CategorySchema, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Operation records an OperationError warning.
func (c *Collector) Operation(operation, path, format string, args ...any) {
	c.add(Warning{Category: CategoryOperation, Operation: operation, Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *Collector) add(w Warning) {
	if c == nil {
		return
	}
	if _, dup := c.seen[w]; dup {
		return
	}
	c.seen[w] = struct{}{}
	c.warnings = append(c.warnings, w)
	if c.logger != nil {
		c.logger.Warn(w.Message, "category", string(w.Category), "path", w.Path, "operation", w.Operation)
	}
}

// Warnings returns a copy of the recorded warnings.
func (c *Collector) Warnings() []Warning {
	if c == nil {
		return nil
	}
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Len returns the number of recorded warnings.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.warnings)
}
