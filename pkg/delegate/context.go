package delegate

import (
	"fmt"
	"go/token"

	"github.com/toyz/delegate/internal/typegraph"
	"github.com/toyz/delegate/pkg/codegen"
)

// Severity of a diagnostic
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// Diagnostic is a structured report about an annotated element.
type Diagnostic struct {
	Severity Severity
	Message  string
	Position token.Position // zero when there is no source location
	Element  string
}

func (d Diagnostic) String() string {
	if d.Position.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Position, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Messager receives diagnostics.
type Messager interface {
	PrintMessage(d Diagnostic)
}

// MessageCollector is a Messager that keeps every diagnostic.
type MessageCollector struct {
	Diagnostics []Diagnostic
}

// PrintMessage records d
func (c *MessageCollector) PrintMessage(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// Errors returns the error diagnostics
func (c *MessageCollector) Errors() []Diagnostic {
	var errs []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	return errs
}

// HasErrors reports whether any error was recorded
func (c *MessageCollector) HasErrors() bool {
	return len(c.Errors()) > 0
}

// ProcessorContext is shared by every step of a processing pass.
type ProcessorContext struct {
	Graph    *typegraph.Graph
	Messager Messager
	Filer    codegen.Filer
}

// Report sends a diagnostic positioned at pos
func (c *ProcessorContext) Report(severity Severity, pos token.Pos, element, format string, args ...any) {
	if c.Messager == nil {
		return
	}
	c.Messager.PrintMessage(Diagnostic{
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Position: c.Graph.Position(pos),
		Element:  element,
	})
}

// Errorf reports an error diagnostic
func (c *ProcessorContext) Errorf(pos token.Pos, element, format string, args ...any) {
	c.Report(SeverityError, pos, element, format, args...)
}

// Warnf reports a warning diagnostic
func (c *ProcessorContext) Warnf(pos token.Pos, element, format string, args ...any) {
	c.Report(SeverityWarning, pos, element, format, args...)
}
