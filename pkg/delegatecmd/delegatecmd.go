// Package delegatecmd is the delegate command line. Programs embedding
// custom strategies call Main to get the same commands as the stock binary.
package delegatecmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/delegate/internal/cli"
	"github.com/toyz/delegate/internal/registry"
	"github.com/toyz/delegate/internal/utils"
	"github.com/toyz/delegate/pkg/delegate"
)

// Main runs the command line with the built-in strategies plus extra and
// exits the process with the resulting status.
func Main(extra ...delegate.Strategy) {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr, extra...))
}

// Run executes the command line with args and returns the exit status
func Run(args []string, stdout, stderr io.Writer, extra ...delegate.Strategy) int {
	strategies := registry.NewRegistry()
	for _, strategy := range extra {
		if err := strategies.Register(strategy); err != nil {
			fmt.Fprintf(stderr, "delegate: %v\n", err)
			return 1
		}
	}

	root := NewRootCommand(strategies)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		var done *reportedError
		if !errors.As(err, &done) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// reportedError marks failures already rendered by the diagnostic reporter
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// NewRootCommand builds the delegate command tree over a strategy registry
func NewRootCommand(strategies registry.StrategyRegistry) *cobra.Command {
	root := &cobra.Command{
		Use:   "delegate",
		Short: "Generate delegating wrappers for annotated Go types",
		Long: "delegate scans Go packages for //delegate:: annotations and generates, for every\n" +
			"annotated type, a wrapper forwarding its interface methods to a delegate.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Bool("verbose", false, "enable verbose output and detailed error reporting")
	root.PersistentFlags().Bool("quiet", false, "only show errors and final results")
	root.PersistentFlags().String("level", "", "diagnostic level (silent|error|warn|info|verbose|debug)")
	root.PersistentFlags().String("config", "", "configuration file (defaults to the nearest "+cli.ConfigFileName+")")

	root.AddCommand(newGenerateCommand(strategies))
	root.AddCommand(newCleanCommand())
	root.AddCommand(newStrategiesCommand(strategies))
	return root
}

func newGenerateCommand(strategies registry.StrategyRegistry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [directories...]",
		Short: "Generate wrappers for the annotated types under the directories",
		Long: "Generate wrappers for the annotated types under the directories.\n\n" +
			"Directories accept Go-style patterns:\n" +
			"  ./...              scan the current directory recursively\n" +
			"  ./internal/...     scan internal and its subdirectories\n" +
			"  ./pkg/store        scan only this directory",
		Example: "  delegate generate ./...\n" +
			"  delegate generate --strategy printing,timing ./internal/...\n" +
			"  delegate generate --dry-run --verbose ./...",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, strategies)
		},
	}

	cmd.Flags().String("module", "", "custom module path for imports (defaults to the go.mod module)")
	cmd.Flags().StringSlice("strategy", nil, "strategies to run (defaults to all registered)")
	cmd.Flags().String("prefix", utils.DefaultGeneratedPrefix, "prefix of generated file names")
	cmd.Flags().StringSlice("tags", nil, "build tags used when loading packages")
	cmd.Flags().Bool("tests", false, "also process annotated types declared in _test.go files")
	cmd.Flags().Bool("dry-run", false, "render wrappers without writing files")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, strategies registry.StrategyRegistry) error {
	diagnostics, err := newDiagnostics(cmd)
	if err != nil {
		return err
	}

	config, err := loadConfig(cmd)
	if err != nil {
		return reportFailure(cmd, diagnostics, err)
	}
	if len(args) > 0 {
		config.Directories = args
	}
	if err := applyGenerateFlags(cmd, &config); err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	config.Verbose = verbose

	diagnostics.Header("generating wrappers")
	diagnostics.Debug("Directories: %s", strings.Join(config.Directories, ", "))

	generator := cli.NewGeneratorWithDiagnostics(verbose, diagnostics)
	generator.SetRegistry(strategies)
	generator.Reporter().SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err := generator.Run(config); err != nil {
		generator.Reporter().ReportError(err)
		return &reportedError{err: err}
	}
	return nil
}

// applyGenerateFlags overlays the flags set on the command line
func applyGenerateFlags(cmd *cobra.Command, config *cli.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("module") {
		if config.ModuleName, err = flags.GetString("module"); err != nil {
			return err
		}
	}
	if flags.Changed("strategy") {
		if config.Strategies, err = flags.GetStringSlice("strategy"); err != nil {
			return err
		}
	}
	if flags.Changed("prefix") {
		if config.FilePrefix, err = flags.GetString("prefix"); err != nil {
			return err
		}
	}
	if flags.Changed("tags") {
		if config.BuildTags, err = flags.GetStringSlice("tags"); err != nil {
			return err
		}
	}
	if flags.Changed("tests") {
		if config.IncludeTests, err = flags.GetBool("tests"); err != nil {
			return err
		}
	}
	config.DryRun, err = flags.GetBool("dry-run")
	return err
}

func newCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Remove previously generated wrapper files",
		Long: "Remove the files written by generate. Only files whose name carries the\n" +
			"generated prefix and whose header marks them as generated are removed.",
		RunE: runClean,
	}
	cmd.Flags().String("prefix", utils.DefaultGeneratedPrefix, "prefix of generated file names")
	cmd.Flags().Bool("dry-run", false, "list the files without removing them")
	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	diagnostics, err := newDiagnostics(cmd)
	if err != nil {
		return err
	}

	config, err := loadConfig(cmd)
	if err != nil {
		return reportFailure(cmd, diagnostics, err)
	}
	if len(args) > 0 {
		config.Directories = args
	}
	if cmd.Flags().Changed("prefix") {
		config.FilePrefix, _ = cmd.Flags().GetString("prefix")
	}
	if err := config.Validate(); err != nil {
		return reportFailure(cmd, diagnostics, err)
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	diagnostics.Header("cleaning generated files")
	cleaner := cli.NewCleaner(config.FilePrefix)
	cleaner.SetDryRun(dryRun)
	removed, err := cleaner.CleanGeneratedFiles(config.Directories)
	for _, path := range removed {
		if dryRun {
			diagnostics.PhaseProgress(fmt.Sprintf("Would remove %s", path))
		} else {
			diagnostics.PhaseProgress(fmt.Sprintf("Removing %s", path))
		}
	}
	if err != nil {
		return reportFailure(cmd, diagnostics, err)
	}

	if dryRun {
		diagnostics.Success("%d generated files would be removed", len(removed))
	} else {
		diagnostics.Success("Removed %d generated files", len(removed))
	}
	return nil
}

func newStrategiesCommand(strategies registry.StrategyRegistry) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the registered strategies and the annotations they handle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range strategies.List() {
				strategy, _ := strategies.Get(name)
				var annotations []string
				for _, annotation := range strategy.SupportedAnnotations() {
					annotations = append(annotations, "//delegate::"+annotation)
				}
				fmt.Fprintf(out, "%-12s %s\n", name, strings.Join(annotations, ", "))
			}
			return nil
		},
	}
}

// newDiagnostics builds the console output from the persistent flags
func newDiagnostics(cmd *cobra.Command) (*utils.DiagnosticSystem, error) {
	flags := cmd.Flags()
	quiet, _ := flags.GetBool("quiet")
	verbose, _ := flags.GetBool("verbose")
	levelName, _ := flags.GetString("level")

	var diagnostics *utils.DiagnosticSystem
	switch {
	case levelName != "":
		level, err := utils.ParseDiagnosticLevel(levelName)
		if err != nil {
			return nil, err
		}
		diagnostics = utils.NewDiagnosticSystem(level)
	case quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diagnostics.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return diagnostics, nil
}

// loadConfig starts from the defaults and applies the configuration file
// named by --config or found above the working directory
func loadConfig(cmd *cobra.Command) (cli.Config, error) {
	config := cli.DefaultConfig()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		found, ok, err := cli.FindConfigFile(".")
		if err != nil {
			return config, err
		}
		if !ok {
			return config, nil
		}
		path = found
	}

	if err := config.ApplyFile(path); err != nil {
		return config, err
	}
	return config, nil
}

func reportFailure(cmd *cobra.Command, diagnostics *utils.DiagnosticSystem, err error) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	reporter := cli.NewDiagnosticReporter(verbose)
	reporter.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	reporter.ReportError(err)
	diagnostics.Debug("%v", err)
	return &reportedError{err: err}
}
