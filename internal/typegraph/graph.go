// Package typegraph answers the type-system questions the delegate generator
// asks about loaded Go packages.
package typegraph

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// Graph is a set of loaded packages sharing one file set.
type Graph struct {
	Fset     *token.FileSet
	Packages []*packages.Package

	byTypes map[*types.Package]*packages.Package
	docs    map[token.Pos]*ast.CommentGroup
	errors  []packages.Error
}

// New creates a graph over already loaded packages
func New(fset *token.FileSet, pkgs []*packages.Package) *Graph {
	g := &Graph{
		Fset:     fset,
		Packages: pkgs,
		byTypes:  make(map[*types.Package]*packages.Package),
	}
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if pkg.Types != nil {
			if _, seen := g.byTypes[pkg.Types]; !seen {
				g.byTypes[pkg.Types] = pkg
			}
		}
	})
	return g
}

// Errors returns the load and type errors of every visited package
func (g *Graph) Errors() []packages.Error {
	return append([]packages.Error(nil), g.errors...)
}

// Position resolves pos in the graph's file set
func (g *Graph) Position(pos token.Pos) token.Position {
	if g == nil || g.Fset == nil || !pos.IsValid() {
		return token.Position{}
	}
	return g.Fset.Position(pos)
}

// Package returns the loaded package for a types.Package, or nil
func (g *Graph) Package(pkg *types.Package) *packages.Package {
	if pkg == nil {
		return nil
	}
	return g.byTypes[pkg]
}

// IsValid reports whether t resolved to a real type
func IsValid(t types.Type) bool {
	if t == nil {
		return false
	}
	if basic, ok := t.Underlying().(*types.Basic); ok && basic.Kind() == types.Invalid {
		return false
	}
	return true
}

// IsInterface reports whether t is an interface usable as a value type.
// Type parameters and constraint-only interfaces do not count.
func IsInterface(t types.Type) bool {
	if !IsValid(t) {
		return false
	}
	if _, ok := types.Unalias(t).(*types.TypeParam); ok {
		return false
	}
	iface, ok := t.Underlying().(*types.Interface)
	return ok && iface.IsMethodSet()
}

// DeclaredType is the type declared by obj. Generic types are instantiated
// with their own type parameters so that method signatures and interfaces
// evaluated inside the declaration refer to the same type parameters.
func DeclaredType(obj *types.TypeName) types.Type {
	named, ok := types.Unalias(obj.Type()).(*types.Named)
	if !ok || named.TypeParams().Len() == 0 {
		return obj.Type()
	}
	args := make([]types.Type, named.TypeParams().Len())
	for i := range args {
		args[i] = named.TypeParams().At(i)
	}
	inst, err := types.Instantiate(nil, named, args, false)
	if err != nil {
		return obj.Type()
	}
	return inst
}

// ExplicitMethods returns the methods declared directly in an interface
func ExplicitMethods(t types.Type) []*types.Func {
	iface, ok := t.Underlying().(*types.Interface)
	if !ok {
		return nil
	}
	methods := make([]*types.Func, iface.NumExplicitMethods())
	for i := range methods {
		methods[i] = iface.ExplicitMethod(i)
	}
	return methods
}

// EmbeddedInterfaces returns the interfaces embedded in t, in declaration order
func EmbeddedInterfaces(t types.Type) []types.Type {
	iface, ok := t.Underlying().(*types.Interface)
	if !ok {
		return nil
	}
	var embedded []types.Type
	for i := 0; i < iface.NumEmbeddeds(); i++ {
		if e := iface.EmbeddedType(i); IsInterface(e) {
			embedded = append(embedded, e)
		}
	}
	return embedded
}

// Method is a method visible on a type together with the type declaring it.
// Promoted methods of concrete types are owned by the type they are visible on.
type Method struct {
	Func  *types.Func
	Owner types.Type
}

// VisibleMethods enumerates the methods callable on a value of t.
// Interfaces list explicit methods before embedded ones and the first
// declaration of a name wins. Other types use the method set of *t, which
// includes promoted methods, sorted by name.
func VisibleMethods(t types.Type) []Method {
	if IsInterface(t) {
		seen := make(map[string]bool)
		var methods []Method
		collectInterfaceMethods(t, seen, &methods)
		return methods
	}

	var recv types.Type = t
	if _, isPtr := t.Underlying().(*types.Pointer); !isPtr {
		recv = types.NewPointer(t)
	}
	mset := types.NewMethodSet(recv)
	methods := make([]Method, 0, mset.Len())
	for i := 0; i < mset.Len(); i++ {
		if fn, ok := mset.At(i).Obj().(*types.Func); ok {
			methods = append(methods, Method{Func: fn, Owner: t})
		}
	}
	return methods
}

func collectInterfaceMethods(t types.Type, seen map[string]bool, methods *[]Method) {
	for _, m := range ExplicitMethods(t) {
		if !seen[m.Id()] {
			seen[m.Id()] = true
			*methods = append(*methods, Method{Func: m, Owner: t})
		}
	}
	for _, embedded := range EmbeddedInterfaces(t) {
		collectInterfaceMethods(embedded, seen, methods)
	}
}

// Overrides reports whether m and other declare the same method: same name
// (and package, for unexported names) and identical signatures
func Overrides(m, other *types.Func) bool {
	if m == nil || other == nil {
		return false
	}
	return m.Id() == other.Id() && types.Identical(m.Type(), other.Type())
}

// IsSubsignature reports whether a can stand in for b: identical parameter
// types and the same variadic-ness
func IsSubsignature(a, b *types.Signature) bool {
	if a.Variadic() != b.Variadic() {
		return false
	}
	return types.Identical(a.Params(), b.Params())
}

// IsAssignable reports whether a value of type v can be assigned to t
func IsAssignable(v, t types.Type) bool {
	return types.AssignableTo(v, t)
}

var objectInterface = func() *types.Interface {
	str := types.Universe.Lookup("string").Type()
	sig := types.NewSignatureType(nil, nil, nil, nil,
		types.NewTuple(types.NewParam(token.NoPos, nil, "", str)), false)
	iface := types.NewInterfaceType([]*types.Func{types.NewFunc(token.NoPos, nil, "String", sig)}, nil)
	return iface.Complete()
}()

// IsObjectMethod reports whether fn has the name and signature of a method
// every generated wrapper provides on its own and never delegates
func IsObjectMethod(fn *types.Func) bool {
	for i := 0; i < objectInterface.NumMethods(); i++ {
		m := objectInterface.Method(i)
		if fn.Name() == m.Name() && types.Identical(fn.Type(), m.Type()) {
			return true
		}
	}
	return false
}
