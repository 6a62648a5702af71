package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/models"
	"github.com/toyz/delegate/pkg/delegate"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics.
// It is also the Messager receiving the diagnostics of every processor.
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	errOut  io.Writer

	mu       sync.Mutex
	errors   int
	warnings int
}

var _ delegate.Messager = (*DiagnosticReporter)(nil)

// NewDiagnosticReporter creates a new diagnostic reporter writing to stdout and stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// SetOutput redirects regular and error output
func (r *DiagnosticReporter) SetOutput(out, errOut io.Writer) {
	r.out = out
	r.errOut = errOut
}

// PrintMessage prints a processor diagnostic as "file:line:col: severity: message"
func (r *DiagnosticReporter) PrintMessage(d delegate.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var severity *color.Color
	switch d.Severity {
	case delegate.SeverityError:
		r.errors++
		severity = color.New(color.FgRed, color.Bold)
	case delegate.SeverityWarning:
		r.warnings++
		severity = color.New(color.FgYellow, color.Bold)
	default:
		if !r.verbose {
			return
		}
		severity = color.New(color.FgCyan)
	}

	if d.Position.IsValid() {
		fmt.Fprintf(r.errOut, "%s: ", d.Position)
	}
	severity.Fprint(r.errOut, d.Severity.String())
	fmt.Fprintf(r.errOut, ": %s\n", d.Message)
}

// Counts returns the number of error and warning diagnostics printed so far
func (r *DiagnosticReporter) Counts() (errs, warnings int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors, r.warnings
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	r.mu.Lock()
	r.warnings++
	r.mu.Unlock()

	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.errOut, "! ")
	fmt.Fprintf(r.errOut, "%s\n", message)
	if r.verbose {
		for _, suggestion := range suggestions {
			fmt.Fprintf(r.errOut, "  - %s\n", suggestion)
		}
	}
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.errOut, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.errOut, "=============================\n\n")

	if genErr := r.findGeneratorError(err); genErr != nil {
		r.reportGeneratorError(genErr)
	} else {
		r.reportBasicError(err)
	}

	fmt.Fprintf(r.errOut, "\n")
}

// reportGeneratorError reports a GeneratorError with full context and suggestions
func (r *DiagnosticReporter) reportGeneratorError(genErr *models.GeneratorError) {
	r.printErrorHeader(genErr)

	fmt.Fprintf(r.errOut, "Message: %s\n\n", genErr.Message)

	if r.verbose && genErr.Cause != nil {
		fmt.Fprintf(r.errOut, "Underlying cause: %s\n\n", genErr.Cause.Error())
	}

	if genErr.File != "" {
		if genErr.Line > 0 {
			fmt.Fprintf(r.errOut, "Location: %s:%d\n\n", genErr.File, genErr.Line)
		} else {
			fmt.Fprintf(r.errOut, "File: %s\n\n", genErr.File)
		}
	}

	if len(genErr.Context) > 0 {
		r.printContext(genErr.Context)
	}

	if len(genErr.Suggestions) > 0 {
		r.printSuggestions(genErr.Suggestions)
	}

	r.printAdditionalHelp(genErr.Type)

	if r.verbose {
		r.printVerboseDebuggingInfo(genErr)
	}
}

// reportBasicError reports a basic error without rich context
func (r *DiagnosticReporter) reportBasicError(err error) {
	fmt.Fprintf(r.errOut, "Message: %s\n\n", err.Error())

	errorMsg := strings.ToLower(err.Error())
	if strings.Contains(errorMsg, "module") {
		fmt.Fprintf(r.errOut, "This appears to be a module-related issue.\n")
		fmt.Fprintf(r.errOut, "Common solutions:\n")
		fmt.Fprintf(r.errOut, "  - Check your go.mod file\n")
		fmt.Fprintf(r.errOut, "  - Try specifying --module flag explicitly\n\n")
	}
}

// printErrorHeader prints a formatted error header based on error type
func (r *DiagnosticReporter) printErrorHeader(genErr *models.GeneratorError) {
	errorTypeStr := genErr.Type.String()
	fmt.Fprintf(r.errOut, "Type: %s\n", errorTypeStr)
	fmt.Fprintf(r.errOut, "%s\n\n", strings.Repeat("-", len(errorTypeStr)+6))
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.errOut, "Context:\n")

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(r.errOut, "   %s: %v\n", r.formatContextKey(key), context[key])
	}

	fmt.Fprintf(r.errOut, "\n")
}

// formatContextKey formats context keys to be more readable
func (r *DiagnosticReporter) formatContextKey(key string) string {
	switch key {
	case "config_path":
		return "Configuration"
	case "module_root":
		return "Module Root"
	default:
		// Convert snake_case to Title Case
		parts := strings.Split(key, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.errOut, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.errOut, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.errOut, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(r.errOut, "\n")
}

// printAdditionalHelp prints additional help based on error type
func (r *DiagnosticReporter) printAdditionalHelp(errorType models.ErrorType) {
	switch errorType {
	case models.ErrorTypeAnnotationSyntax:
		fmt.Fprintf(r.errOut, "Annotation Syntax Help:\n")
		fmt.Fprintf(r.errOut, "  - Annotations must start with //delegate::\n")
		fmt.Fprintf(r.errOut, "  - Parameters look like -Key=Value or -Flag\n\n")

	case models.ErrorTypeLoad:
		fmt.Fprintf(r.errOut, "Package Loading Help:\n")
		fmt.Fprintf(r.errOut, "  - Run 'go mod tidy' to ensure dependencies are available\n")
		fmt.Fprintf(r.errOut, "  - Pass --tags when files are behind build constraints\n\n")
	}

	fmt.Fprintf(r.errOut, "For more help:\n")
	fmt.Fprintf(r.errOut, "  - Run with --verbose for more detailed output\n")
	fmt.Fprintf(r.errOut, "  - Run 'delegate strategies' to list the available strategies\n")
}

// findGeneratorError searches the error chain for a GeneratorError. Errors
// from the generator's own packages are converted.
func (r *DiagnosticReporter) findGeneratorError(err error) *models.GeneratorError {
	if err == nil {
		return nil
	}

	var genErr *models.GeneratorError
	if stderrors.As(err, &genErr) {
		return genErr
	}

	var delegateErr errors.DelegateError
	if stderrors.As(err, &delegateErr) {
		return toGeneratorError(delegateErr)
	}
	return nil
}

// toGeneratorError converts a coded error into its reportable form
func toGeneratorError(err errors.DelegateError) *models.GeneratorError {
	message := err.Error()
	if base, ok := err.(*errors.BaseError); ok {
		message = base.Message
		if base.Cause != nil {
			message = fmt.Sprintf("%s: %v", message, base.Cause)
		}
	}

	genErr := &models.GeneratorError{
		Type:        errorTypeOf(err.ErrorCode()),
		Message:     message,
		Cause:       err.Unwrap(),
		Suggestions: err.Suggestions(),
		Context:     err.Context(),
	}
	if loc := err.Location(); !loc.IsEmpty() {
		genErr.File = loc.File
		genErr.Line = loc.Line
	}
	return genErr
}

func errorTypeOf(code errors.ErrorCode) models.ErrorType {
	switch code {
	case errors.SyntaxErrorCode:
		return models.ErrorTypeAnnotationSyntax
	case errors.ConfigurationErrorCode, errors.RegistrationErrorCode:
		return models.ErrorTypeConfiguration
	case errors.FileSystemErrorCode:
		return models.ErrorTypeFileSystem
	case errors.LoadErrorCode:
		return models.ErrorTypeLoad
	default:
		return models.ErrorType(-1)
	}
}

// printVerboseDebuggingInfo prints additional debugging information in verbose mode
func (r *DiagnosticReporter) printVerboseDebuggingInfo(genErr *models.GeneratorError) {
	fmt.Fprintf(r.errOut, "Verbose Debug Information:\n")
	fmt.Fprintf(r.errOut, "  Error Type Code: %d\n", int(genErr.Type))

	if genErr.Cause != nil {
		fmt.Fprintf(r.errOut, "  Error Chain:\n")
		err := genErr.Cause
		level := 1
		for err != nil {
			fmt.Fprintf(r.errOut, "    %d. %s\n", level, err.Error())
			err = stderrors.Unwrap(err)
			level++
		}
	}

	fmt.Fprintf(r.errOut, "\n")
}

// Debug prints debug information when verbose mode is enabled
func (r *DiagnosticReporter) Debug(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(r.errOut, "[DEBUG] "+format+"\n", args...)
	}
}

// DebugSection prints a debug section header when verbose mode is enabled
func (r *DiagnosticReporter) DebugSection(section string) {
	if r.verbose {
		fmt.Fprintf(r.errOut, "[DEBUG] === %s ===\n", section)
	}
}

// ReportSuccess reports a finished generation run with summary information
func (r *DiagnosticReporter) ReportSuccess(summary *models.GenerationSummary) {
	if summary.DryRun {
		fmt.Fprintf(r.out, "\nDry Run Completed\n")
		fmt.Fprintf(r.out, "=================\n\n")
	} else {
		fmt.Fprintf(r.out, "\nCode Generation Completed Successfully!\n")
		fmt.Fprintf(r.out, "=======================================\n\n")
	}

	if summary.PackagesProcessed > 0 {
		fmt.Fprintf(r.out, "Processed %d packages\n", summary.PackagesProcessed)
	}

	if summary.ElementsFound > 0 {
		fmt.Fprintf(r.out, "Found %d annotated declarations\n", summary.ElementsFound)
	}

	for _, strategy := range summary.Strategies() {
		fmt.Fprintf(r.out, "Generated %d %s wrappers\n", summary.TypesGenerated[strategy], strategy)
	}

	if summary.Warnings > 0 {
		fmt.Fprintf(r.out, "Reported %d warnings\n", summary.Warnings)
	}

	if len(summary.GeneratedFiles) > 0 {
		if summary.DryRun {
			fmt.Fprintf(r.out, "\nFiles that would be written:\n")
		} else {
			fmt.Fprintf(r.out, "\nGenerated files:\n")
		}
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}

	if r.verbose && summary.Duration > 0 {
		fmt.Fprintf(r.out, "\nFinished in %s\n", summary.Duration.Round(time.Millisecond))
	}
}
