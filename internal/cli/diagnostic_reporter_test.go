package cli

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/models"
	"github.com/toyz/delegate/pkg/delegate"
)

func newTestReporter(verbose bool) (*DiagnosticReporter, *bytes.Buffer, *bytes.Buffer) {
	color.NoColor = true
	var out, errOut bytes.Buffer
	reporter := NewDiagnosticReporter(verbose)
	reporter.SetOutput(&out, &errOut)
	return reporter, &out, &errOut
}

func TestDiagnosticReporter_PrintMessage(t *testing.T) {
	reporter, _, errOut := newTestReporter(false)

	reporter.PrintMessage(delegate.Diagnostic{
		Severity: delegate.SeverityError,
		Message:  "No interfaces found on annotated type: Lonely",
		Position: token.Position{Filename: "store/lonely.go", Line: 7, Column: 6},
	})
	reporter.PrintMessage(delegate.Diagnostic{
		Severity: delegate.SeverityWarning,
		Message:  "Unknown log level \"loud\", using debug",
	})
	reporter.PrintMessage(delegate.Diagnostic{Severity: delegate.SeverityNote, Message: "hidden"})

	want := "store/lonely.go:7:6: error: No interfaces found on annotated type: Lonely\n" +
		"warning: Unknown log level \"loud\", using debug\n"
	if got := errOut.String(); got != want {
		t.Errorf("PrintMessage output = %q, want %q", got, want)
	}

	errs, warnings := reporter.Counts()
	if errs != 1 || warnings != 1 {
		t.Errorf("Counts() = %d, %d, want 1, 1", errs, warnings)
	}
}

func TestDiagnosticReporter_PrintMessageVerboseNotes(t *testing.T) {
	reporter, _, errOut := newTestReporter(true)

	reporter.PrintMessage(delegate.Diagnostic{Severity: delegate.SeverityNote, Message: "generated StoreWrapper"})

	if got := errOut.String(); got != "note: generated StoreWrapper\n" {
		t.Errorf("PrintMessage output = %q", got)
	}
}

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	reporter, _, errOut := newTestReporter(false)

	reporter.ReportWarning("This is a test warning")
	reporter.ReportWarning("This is another warning", "First suggestion")

	output := errOut.String()
	for _, expected := range []string{"! This is a test warning", "! This is another warning"} {
		if !strings.Contains(output, expected) {
			t.Errorf("Output should contain '%s', got:\n%s", expected, output)
		}
	}
	if strings.Contains(output, "First suggestion") {
		t.Errorf("Suggestions should only be shown in verbose mode, got:\n%s", output)
	}
}

func TestDiagnosticReporter_ReportGeneratorError(t *testing.T) {
	reporter, _, errOut := newTestReporter(false)

	genErr := &models.GeneratorError{
		Type:    models.ErrorTypeAnnotationSyntax,
		File:    "store.go",
		Line:    42,
		Message: "unexpected token \"=\"",
		Suggestions: []string{
			"Write parameters as -Key=Value",
		},
		Context: map[string]interface{}{
			"annotation": "//delegate::Printing =x",
		},
	}

	reporter.ReportError(fmt.Errorf("discovery: %w", genErr))

	output := errOut.String()
	expectedElements := []string{
		"ERROR: Code Generation Failed",
		"Type: Annotation Syntax Error",
		"Message: unexpected token \"=\"",
		"Location: store.go:42",
		"Context:",
		"Annotation: //delegate::Printing =x",
		"Suggestions:",
		"1. Write parameters as -Key=Value",
		"Annotation Syntax Help:",
	}
	for _, expected := range expectedElements {
		if !strings.Contains(output, expected) {
			t.Errorf("Output should contain '%s', got:\n%s", expected, output)
		}
	}
}

func TestDiagnosticReporter_ReportDelegateError(t *testing.T) {
	reporter, _, errOut := newTestReporter(true)

	err := errors.WrapLoadError("./...", fmt.Errorf("exit status 1"))
	reporter.ReportError(err)

	output := errOut.String()
	expectedElements := []string{
		"Type: Package Load Error",
		"Message: failed to load packages './...': exit status 1",
		"Pattern: ./...",
		"Run 'go build' on the package to see compiler errors",
		"Package Loading Help:",
		"Underlying cause: exit status 1",
		"Error Chain:",
	}
	for _, expected := range expectedElements {
		if !strings.Contains(output, expected) {
			t.Errorf("Output should contain '%s', got:\n%s", expected, output)
		}
	}
}

func TestDiagnosticReporter_ReportBasicError(t *testing.T) {
	reporter, _, errOut := newTestReporter(false)

	reporter.ReportError(fmt.Errorf("module path is not valid"))

	output := errOut.String()
	expectedElements := []string{
		"ERROR: Code Generation Failed",
		"Message: module path is not valid",
		"This appears to be a module-related issue",
	}
	for _, expected := range expectedElements {
		if !strings.Contains(output, expected) {
			t.Errorf("Output should contain '%s', got:\n%s", expected, output)
		}
	}
}

func TestDiagnosticReporter_ReportSuccess(t *testing.T) {
	reporter, out, _ := newTestReporter(false)

	summary := models.NewGenerationSummary()
	summary.PackagesProcessed = 3
	summary.ElementsFound = 4
	summary.AddGenerated("printing", []string{"store/autogen_printing_store.go", "cache/autogen_printing_cache.go"})
	summary.AddGenerated("timing", []string{"store/autogen_timed_store.go"})

	reporter.ReportSuccess(summary)

	output := out.String()
	expectedElements := []string{
		"Code Generation Completed Successfully!",
		"Processed 3 packages",
		"Found 4 annotated declarations",
		"Generated 2 printing wrappers\nGenerated 1 timing wrappers",
		"Generated files:",
		"  - store/autogen_printing_store.go",
		"  - store/autogen_timed_store.go",
	}
	for _, expected := range expectedElements {
		if !strings.Contains(output, expected) {
			t.Errorf("Output should contain '%s', got:\n%s", expected, output)
		}
	}
}

func TestDiagnosticReporter_ReportSuccessDryRun(t *testing.T) {
	reporter, out, _ := newTestReporter(false)

	summary := models.NewGenerationSummary()
	summary.DryRun = true
	summary.AddGenerated("passthrough", []string{"store/autogen_store_wrapper.go"})

	reporter.ReportSuccess(summary)

	output := out.String()
	for _, expected := range []string{"Dry Run Completed", "Files that would be written:"} {
		if !strings.Contains(output, expected) {
			t.Errorf("Output should contain '%s', got:\n%s", expected, output)
		}
	}
}

func TestDiagnosticReporter_FormatContextKey(t *testing.T) {
	reporter := NewDiagnosticReporter(false)

	tests := []struct {
		key      string
		expected string
	}{
		{"config_path", "Configuration"},
		{"module_root", "Module Root"},
		{"strategy", "Strategy"},
		{"build_tags_used", "Build Tags Used"},
	}
	for _, tt := range tests {
		if got := reporter.formatContextKey(tt.key); got != tt.expected {
			t.Errorf("formatContextKey(%q) = %q, want %q", tt.key, got, tt.expected)
		}
	}
}

func TestDiagnosticReporter_Debug(t *testing.T) {
	quiet, _, quietOut := newTestReporter(false)
	quiet.Debug("hidden %d", 1)
	quiet.DebugSection("Hidden")
	if quietOut.Len() != 0 {
		t.Errorf("Debug output should be empty when not verbose, got %q", quietOut.String())
	}

	verbose, _, verboseOut := newTestReporter(true)
	verbose.DebugSection("Loading")
	verbose.Debug("loaded %d packages", 2)
	want := "[DEBUG] === Loading ===\n[DEBUG] loaded 2 packages\n"
	if got := verboseOut.String(); got != want {
		t.Errorf("Debug output = %q, want %q", got, want)
	}
}
