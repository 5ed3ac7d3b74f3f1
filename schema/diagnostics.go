package schema

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
)

// ValidationError describes one problem found in a schema snapshot, with
// enough context to fix the declarative source.
type ValidationError struct {
	Object  string // table, view or enum name
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Object, e.Message)
}

// ValidationWarning is a non-fatal notice surfaced next to errors.
type ValidationWarning struct {
	Object  string
	Message string
}

// Diagnostics accumulates validation errors and warnings. Validation never
// stops at the first problem: the collection lets a user see every schema
// issue at once.
type Diagnostics struct {
	errors   []ValidationError
	warnings []ValidationWarning
}

// NewDiagnostics creates an empty Diagnostics collection.
func NewDiagnostics() Diagnostics {
	return Diagnostics{
		errors:   make([]ValidationError, 0),
		warnings: make([]ValidationWarning, 0),
	}
}

// PushError adds an error to the collection.
func (d *Diagnostics) PushError(object, format string, args ...interface{}) {
	d.errors = append(d.errors, ValidationError{Object: object, Message: fmt.Sprintf(format, args...)})
}

// PushWarning adds a warning to the collection.
func (d *Diagnostics) PushWarning(object, format string, args ...interface{}) {
	d.warnings = append(d.warnings, ValidationWarning{Object: object, Message: fmt.Sprintf(format, args...)})
}

// Errors returns all errors in the collection.
func (d *Diagnostics) Errors() []ValidationError {
	return d.errors
}

// Warnings returns all warnings in the collection.
func (d *Diagnostics) Warnings() []ValidationWarning {
	return d.warnings
}

// HasErrors returns true if at least one error was collected.
func (d *Diagnostics) HasErrors() bool {
	return len(d.errors) > 0
}

// ToResult returns an error summarizing the collection, or nil.
func (d *Diagnostics) ToResult() error {
	if d.HasErrors() {
		return fmt.Errorf("schema validation failed with %d errors", len(d.errors))
	}
	return nil
}

// ToPrettyString formats all errors and warnings with colors for terminal
// output.
func (d *Diagnostics) ToPrettyString() string {
	var buf bytes.Buffer
	errTitle := color.New(color.FgRed, color.Bold)
	warnTitle := color.New(color.FgYellow, color.Bold)
	objectColor := color.New(color.FgCyan)

	for _, e := range d.errors {
		errTitle.Fprint(&buf, "error")
		fmt.Fprint(&buf, ": ")
		objectColor.Fprintf(&buf, "%s", e.Object)
		fmt.Fprintf(&buf, ": %s\n", e.Message)
	}
	for _, w := range d.warnings {
		warnTitle.Fprint(&buf, "warning")
		fmt.Fprint(&buf, ": ")
		objectColor.Fprintf(&buf, "%s", w.Object)
		fmt.Fprintf(&buf, ": %s\n", w.Message)
	}
	return buf.String()
}
