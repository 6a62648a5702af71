package cli

import (
	stderrors "errors"
	"fmt"
	"go/token"
	"path/filepath"
	"strings"
	"time"

	"github.com/toyz/delegate/internal/annotations"
	"github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/models"
	"github.com/toyz/delegate/internal/parser"
	"github.com/toyz/delegate/internal/registry"
	"github.com/toyz/delegate/internal/typegraph"
	"github.com/toyz/delegate/internal/utils"
	"github.com/toyz/delegate/pkg/codegen"
	"github.com/toyz/delegate/pkg/delegate"
)

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	registry       registry.StrategyRegistry
	reporter       *DiagnosticReporter
	diagnostics    *utils.DiagnosticSystem
	summary        *models.GenerationSummary
}

// NewGenerator creates a new CLI generator using the built-in strategies
func NewGenerator(verbose bool) *Generator {
	return &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		registry:       registry.NewRegistry(),
		reporter:       NewDiagnosticReporter(verbose),
		summary:        models.NewGenerationSummary(),
	}
}

// NewGeneratorWithDiagnostics creates a new CLI generator reporting its
// phases through a diagnostic system
func NewGeneratorWithDiagnostics(verbose bool, diagnostics *utils.DiagnosticSystem) *Generator {
	g := NewGenerator(verbose)
	g.diagnostics = diagnostics
	return g
}

// SetRegistry replaces the strategies available to the generator
func (g *Generator) SetRegistry(r registry.StrategyRegistry) {
	g.registry = r
}

// Reporter returns the reporter receiving generation diagnostics
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() *models.GenerationSummary {
	return g.summary
}

// Run executes the complete generation process. Problems with individual
// annotated types are reported as diagnostics and do not stop the run; the
// run fails afterwards when any error diagnostic was reported.
func (g *Generator) Run(config Config) error {
	startTime := time.Now()
	g.summary = models.NewGenerationSummary()
	g.summary.DryRun = config.DryRun

	if err := config.Validate(); err != nil {
		return err
	}

	g.phaseHeader("Setup")
	if config.Source != "" {
		g.phaseItem(fmt.Sprintf("Using configuration %s", config.Source))
	}

	module, err := g.moduleResolver.Resolve(moduleStartDir(config.Directories), config.ModuleName)
	if err != nil {
		return err
	}
	g.phaseItem(fmt.Sprintf("Module %s", module.Path))
	g.debug("Module root: %s", module.Root)

	g.scanner.SetIncludeTests(config.IncludeTests)
	g.scanner.SetGeneratedPrefix(config.FilePrefix)
	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			Message: fmt.Sprintf("Failed to scan directories: %v", err),
			Cause:   err,
			Suggestions: []string{
				"Check that the specified directories exist",
				"Ensure you have read permissions for the directories",
			},
			Context: map[string]interface{}{
				"directories": config.Directories,
			},
		}
	}
	if len(packageDirs) == 0 {
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			Message: "No Go packages found in specified directories",
			Suggestions: []string{
				"Ensure the directories contain Go files",
				"Try scanning parent directories or use './...' pattern",
			},
			Context: map[string]interface{}{
				"directories": config.Directories,
			},
		}
	}

	patterns, err := g.moduleResolver.Patterns(module, packageDirs)
	if err != nil {
		return err
	}
	g.phaseItem(fmt.Sprintf("Found %d packages to process", len(packageDirs)))
	for _, pattern := range patterns {
		g.debug("Package: %s", pattern)
	}

	strategies, err := g.registry.Select(config.Strategies)
	if err != nil {
		return err
	}

	g.phaseHeader("Loading")
	graph, err := typegraph.Load(typegraph.LoadOptions{
		Dir:      module.Root,
		Tags:     config.BuildTags,
		Tests:    config.IncludeTests,
		Patterns: patterns,
	})
	if err != nil {
		return errors.WrapLoadError(strings.Join(patterns, " "), err).
			WithContext("module_root", module.Root)
	}
	g.summary.PackagesProcessed = len(graph.Packages)
	g.phaseItem(fmt.Sprintf("Loaded %d packages", len(graph.Packages)))

	// Wrappers are often referenced before they exist, so type errors are
	// only shown when debugging.
	for _, loadErr := range graph.Errors() {
		g.debug("Type error: %s", loadErr)
	}

	g.phaseHeader("Discovery")
	elements, err := parser.NewParser(graph).Discover()
	if err != nil {
		g.reportDiscoveryErrors(err)
	}
	g.summary.ElementsFound = len(elements)
	g.phaseItem(fmt.Sprintf("Found %d annotated declarations", len(elements)))
	g.listElements(elements)

	g.phaseHeader("Generation")
	var filer codegen.Filer = codegen.NewDirFiler()
	if config.DryRun {
		filer = codegen.NewMemoryFiler()
	}
	ctx := &delegate.ProcessorContext{
		Graph:    graph,
		Messager: g.reporter,
		Filer:    filer,
	}
	for _, strategy := range strategies {
		processor := delegate.NewProcessor(strategy)
		processor.SetFilePrefix(config.FilePrefix)

		written := processor.Process(ctx, elements)
		files := make([]string, len(written))
		for i, path := range written {
			files[i] = relativeTo(module.Root, path)
			g.phaseProgress(fmt.Sprintf("Writing %s", files[i]))
		}
		g.summary.AddGenerated(processor.Name(), files)
		g.debug("Strategy %s generated %d wrappers", processor.Name(), len(files))
	}

	g.summary.Errors, g.summary.Warnings = g.reporter.Counts()
	g.summary.Duration = time.Since(startTime)

	if g.summary.Failed() {
		return &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			Message: fmt.Sprintf("Generation reported %d errors", g.summary.Errors),
			Suggestions: []string{
				"Fix the errors printed above and run the generator again",
			},
			Context: map[string]interface{}{
				"generated_files": len(g.summary.GeneratedFiles),
			},
		}
	}

	g.reporter.ReportSuccess(g.summary)
	if g.diagnostics != nil {
		g.diagnostics.GenerationComplete()
	}
	return nil
}

// reportDiscoveryErrors turns malformed annotations into positioned diagnostics
func (g *Generator) reportDiscoveryErrors(err error) {
	var collected *errors.MultipleErrors
	if !stderrors.As(err, &collected) {
		g.reporter.PrintMessage(delegate.Diagnostic{Severity: delegate.SeverityError, Message: err.Error()})
		return
	}
	for _, e := range collected.Errors {
		g.reporter.PrintMessage(syntaxDiagnostic(e))
	}
}

func syntaxDiagnostic(err error) delegate.Diagnostic {
	var syntaxErr *annotations.SyntaxError
	if !stderrors.As(err, &syntaxErr) {
		return delegate.Diagnostic{Severity: delegate.SeverityError, Message: err.Error()}
	}
	return delegate.Diagnostic{
		Severity: delegate.SeverityError,
		Message:  fmt.Sprintf("invalid annotation %q: %v", strings.TrimSpace(syntaxErr.Raw), syntaxErr.Cause),
		Position: token.Position{
			Filename: syntaxErr.Location.File,
			Line:     syntaxErr.Location.Line,
			Column:   syntaxErr.Location.Column,
		},
	}
}

// moduleStartDir is the directory the module is looked up from
func moduleStartDir(directories []string) string {
	if len(directories) == 0 {
		return "."
	}
	dir := strings.TrimSuffix(filepath.ToSlash(directories[0]), "/...")
	if dir == "" || dir == "..." {
		return "."
	}
	return filepath.FromSlash(dir)
}

func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func (g *Generator) phaseHeader(phase string) {
	if g.diagnostics != nil {
		g.diagnostics.PhaseHeader(phase)
	}
}

func (g *Generator) phaseItem(message string) {
	if g.diagnostics != nil {
		g.diagnostics.PhaseItem(message)
	}
}

func (g *Generator) phaseProgress(message string) {
	if g.diagnostics != nil {
		g.diagnostics.PhaseProgress(message)
	}
}

// listElements shows every discovered declaration in verbose mode
func (g *Generator) listElements(elements []delegate.Element) {
	if g.diagnostics == nil || g.diagnostics.Level() < utils.DiagnosticVerbose {
		return
	}
	g.diagnostics.Indent()
	defer g.diagnostics.Unindent()
	for _, element := range elements {
		g.diagnostics.List("%s %s (delegate::%s)", element.Kind, element.Name, element.Annotation)
	}
}

func (g *Generator) debug(format string, args ...interface{}) {
	if g.diagnostics != nil {
		g.diagnostics.Debug(format, args...)
		return
	}
	g.reporter.Debug(format, args...)
}
