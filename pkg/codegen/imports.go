package codegen

import (
	"fmt"
	"go/types"
	"path"
	"sort"
	"strconv"
	"strings"
)

// ImportManager assigns package names to import paths for one generated file
// and renders the import block.
type ImportManager struct {
	localPath string
	byPath    map[string]string // path -> name used in the file
	byName    map[string]string // name -> path
}

// NewImportManager creates an import manager for a file in localPath
func NewImportManager(localPath string) *ImportManager {
	return &ImportManager{
		localPath: localPath,
		byPath:    make(map[string]string),
		byName:    make(map[string]string),
	}
}

// Reserve marks names that imports must not take, such as the type being generated
func (im *ImportManager) Reserve(names ...string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, taken := im.byName[name]; !taken {
			im.byName[name] = ""
		}
	}
}

// Qualify returns the qualifier for importPath, registering the import on first use.
// The empty string is returned for the local package.
func (im *ImportManager) Qualify(importPath, packageName string) string {
	if importPath == "" || importPath == im.localPath {
		return ""
	}
	if name, ok := im.byPath[importPath]; ok {
		return name
	}
	if packageName == "" {
		packageName = DefaultPackageName(importPath)
	}

	name := packageName
	for i := 2; ; i++ {
		if _, taken := im.byName[name]; !taken {
			break
		}
		name = packageName + strconv.Itoa(i)
	}
	im.byName[name] = importPath
	im.byPath[importPath] = name
	return name
}

// Qualifier adapts the manager to go/types type printing
func (im *ImportManager) Qualifier() types.Qualifier {
	return func(pkg *types.Package) string {
		return im.Qualify(pkg.Path(), pkg.Name())
	}
}

// Paths returns the registered import paths in sorted order
func (im *ImportManager) Paths() []string {
	paths := make([]string, 0, len(im.byPath))
	for p := range im.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// GenerateImports generates the import section, standard library first
func (im *ImportManager) GenerateImports() string {
	if len(im.byPath) == 0 {
		return ""
	}

	var std, other []string
	for _, p := range im.Paths() {
		spec := strconv.Quote(p)
		if name := im.byPath[p]; name != DefaultPackageName(p) {
			spec = name + " " + spec
		}
		if isStandardLibrary(p) {
			std = append(std, spec)
		} else {
			other = append(other, spec)
		}
	}

	if len(std)+len(other) == 1 {
		return fmt.Sprintf("import %s\n", append(std, other...)[0])
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, spec := range std {
		result.WriteString("\t" + spec + "\n")
	}
	if len(std) > 0 && len(other) > 0 {
		result.WriteString("\n")
	}
	for _, spec := range other {
		result.WriteString("\t" + spec + "\n")
	}
	result.WriteString(")\n")
	return result.String()
}

// DefaultPackageName guesses the package name of an import path: the last
// element, skipping a trailing major version suffix and dropping dotted
// suffixes like "yaml.v3".
func DefaultPackageName(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return strings.ReplaceAll(base, "-", "")
}

func isMajorVersion(element string) bool {
	if len(element) < 2 || element[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(element[1:])
	return err == nil
}

func isStandardLibrary(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
