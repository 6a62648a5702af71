package typegraph

import (
	"fmt"
	"go/token"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode is the information the generator needs from go/packages
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedModule

// LoadOptions configures package loading
type LoadOptions struct {
	Dir      string   // working directory for the go command
	Tags     []string // build tags
	Tests    bool     // include _test.go files
	Patterns []string // package patterns, "./..." when empty
}

// Load loads and type-checks the packages matched by the options.
// Type errors do not fail the load: wrappers are commonly referenced before
// they are generated, so the errors are kept on the graph instead.
func Load(opts LoadOptions) (*Graph, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode:  LoadMode,
		Dir:   opts.Dir,
		Fset:  fset,
		Tests: opts.Tests,
	}
	if len(opts.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(opts.Tags, ",")}
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages %s: %w", strings.Join(patterns, " "), err)
	}
	if opts.Tests {
		pkgs = dropTestDuplicates(pkgs)
	}

	graph := New(fset, pkgs)
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			graph.errors = append(graph.errors, e)
		}
	})
	return graph, nil
}

// dropTestDuplicates keeps one package per import path when tests are loaded.
// The test variant of a package holds a superset of its files, so it wins.
// Synthesized test mains have no syntax worth scanning.
func dropTestDuplicates(pkgs []*packages.Package) []*packages.Package {
	best := make(map[string]*packages.Package)
	var order []string
	for _, pkg := range pkgs {
		if strings.HasSuffix(pkg.ID, ".test") {
			continue
		}
		current, ok := best[pkg.PkgPath]
		if !ok {
			order = append(order, pkg.PkgPath)
		}
		if !ok || len(pkg.GoFiles) > len(current.GoFiles) {
			best[pkg.PkgPath] = pkg
		}
	}

	result := make([]*packages.Package, 0, len(order))
	for _, path := range order {
		result = append(result, best[path])
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].PkgPath < result[j].PkgPath })
	return result
}
