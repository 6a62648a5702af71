package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/utils"
)

// ConfigFileName is looked up from the working directory upwards
const ConfigFileName = "delegate.toml"

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for annotated Go files.
	// Go-style patterns such as "./..." are accepted.
	Directories []string

	// ModuleName is the custom module name for imports
	// If empty, will be determined from go.mod file
	ModuleName string

	// Strategies names the strategies to run; empty runs every registered one
	Strategies []string

	// FilePrefix starts the name of every generated file
	FilePrefix string

	// BuildTags are passed to the go command when loading packages
	BuildTags []string

	// IncludeTests also scans _test.go files for annotations
	IncludeTests bool

	// DryRun renders everything but writes nothing
	DryRun bool

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Source is the configuration file the settings were read from, if any
	Source string
}

// DefaultConfig returns the settings used without a configuration file or flags
func DefaultConfig() Config {
	return Config{
		Directories: []string{"./..."},
		FilePrefix:  utils.DefaultGeneratedPrefix,
	}
}

// fileConfig is the layout of delegate.toml
type fileConfig struct {
	Generate generateConfig `toml:"generate"`
}

type generateConfig struct {
	Directories  []string `toml:"directories"`
	Strategies   []string `toml:"strategies"`
	FilePrefix   string   `toml:"file_prefix"`
	BuildTags    []string `toml:"build_tags"`
	IncludeTests bool     `toml:"include_tests"`
	Module       string   `toml:"module"`
}

// FindConfigFile walks up from startDir looking for delegate.toml
func FindConfigFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !stderrors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// ApplyFile overlays the settings defined in a configuration file. Relative
// directories are resolved against the file's directory. Unknown keys are
// rejected so typos do not go unnoticed.
func (c *Config) ApplyFile(path string) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return errors.WrapConfigurationError(path, "parse", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return errors.WrapConfigurationError(path, "parse", fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))).
			WithSuggestions("Supported keys live in the [generate] table: directories, strategies, file_prefix, build_tags, include_tests, module")
	}

	gen := fc.Generate
	root := filepath.Dir(path)
	if meta.IsDefined("generate", "directories") {
		c.Directories = nil
		for _, dir := range gen.Directories {
			c.Directories = append(c.Directories, resolvePattern(root, dir))
		}
	}
	if meta.IsDefined("generate", "strategies") {
		c.Strategies = gen.Strategies
	}
	if meta.IsDefined("generate", "file_prefix") {
		c.FilePrefix = gen.FilePrefix
	}
	if meta.IsDefined("generate", "build_tags") {
		c.BuildTags = gen.BuildTags
	}
	if meta.IsDefined("generate", "include_tests") {
		c.IncludeTests = gen.IncludeTests
	}
	if meta.IsDefined("generate", "module") {
		c.ModuleName = gen.Module
	}
	c.Source = path
	return nil
}

// resolvePattern anchors a relative directory or pattern at root
func resolvePattern(root, pattern string) string {
	base, recursive := strings.CutSuffix(pattern, "/...")
	if !filepath.IsAbs(base) {
		base = filepath.Join(root, filepath.FromSlash(base))
	}
	if recursive {
		return filepath.ToSlash(base) + "/..."
	}
	return base
}

// Validate checks the settings before a run
func (c Config) Validate() error {
	if len(c.Directories) == 0 {
		return errors.New(errors.ConfigurationErrorCode, "no directories to scan").
			WithSuggestions("Pass directories as arguments, e.g. 'delegate generate ./...'")
	}
	if strings.ContainsAny(c.FilePrefix, `/\`) {
		return errors.Newf(errors.ConfigurationErrorCode, "file prefix %q must not contain path separators", c.FilePrefix)
	}
	if c.FilePrefix == "" {
		return errors.New(errors.ConfigurationErrorCode, "file prefix must not be empty").
			WithSuggestions("Generated files are recognised by their prefix; use the default 'autogen_'")
	}
	return nil
}
