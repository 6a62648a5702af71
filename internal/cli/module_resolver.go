package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/utils"
)

// ModuleInfo describes the module the scanned packages belong to
type ModuleInfo struct {
	Root string // directory holding go.mod
	Path string // module path used for import paths
}

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{goMod: utils.NewGoModParser()}
}

// Resolve finds the module enclosing startDir. If customModule is provided
// it replaces the module path read from go.mod.
func (r *ModuleResolver) Resolve(startDir, customModule string) (ModuleInfo, error) {
	goModPath, err := r.goMod.FindGoModFile(startDir)
	if err != nil {
		return ModuleInfo{}, errors.Wrap(errors.ConfigurationErrorCode, "failed to determine module", err).
			WithContext("directory", startDir).
			WithSuggestions("Run delegate inside a Go module, or create one with 'go mod init'")
	}

	info := ModuleInfo{Root: filepath.Dir(goModPath), Path: customModule}
	if info.Path == "" {
		info.Path, err = r.goMod.ParseModuleName(goModPath)
		if err != nil {
			return ModuleInfo{}, errors.WrapConfigurationError(goModPath, "parse", err).
				WithSuggestions("Fix go.mod or pass the module path with --module")
		}
	}
	return info, nil
}

// ResolveModuleName returns customModule when set, otherwise the module path
// declared by the go.mod enclosing startDir
func (r *ModuleResolver) ResolveModuleName(startDir, customModule string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}
	info, err := r.Resolve(startDir, "")
	if err != nil {
		return "", err
	}
	return info.Path, nil
}

// relative returns packageDir relative to the module root, slash separated
func (r *ModuleResolver) relative(module ModuleInfo, packageDir string) (string, error) {
	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}
	relPath, err := filepath.Rel(module.Root, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == ".." || strings.HasPrefix(relPath, "../") {
		return "", errors.Newf(errors.ConfigurationErrorCode, "directory %s is outside module %s", packageDir, module.Path).
			WithContext("module_root", module.Root)
	}
	return relPath, nil
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(module ModuleInfo, packageDir string) (string, error) {
	relPath, err := r.relative(module, packageDir)
	if err != nil {
		return "", err
	}
	if relPath == "." {
		return module.Path, nil
	}
	return module.Path + "/" + relPath, nil
}

// Patterns turns package directories into go command patterns relative to
// the module root
func (r *ModuleResolver) Patterns(module ModuleInfo, packageDirs []string) ([]string, error) {
	patterns := make([]string, 0, len(packageDirs))
	for _, dir := range packageDirs {
		relPath, err := r.relative(module, dir)
		if err != nil {
			return nil, err
		}
		if relPath == "." {
			patterns = append(patterns, ".")
			continue
		}
		patterns = append(patterns, "./"+relPath)
	}
	return patterns, nil
}
