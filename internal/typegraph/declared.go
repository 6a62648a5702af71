package typegraph

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
)

// DeclaredInterface is one entry of a type's declared interface list.
type DeclaredInterface struct {
	Source string     // the type expression as written
	Type   types.Type // nil or invalid when it did not resolve
	Pos    token.Pos
	Err    error
}

// Resolved reports whether the entry names a valid type
func (d DeclaredInterface) Resolved() bool {
	return d.Err == nil && IsValid(d.Type)
}

// DeclaredInterfaces returns the interfaces obj is asserted to implement by
// package level declarations such as
//
//	var _ io.Reader = (*T)(nil)
//
// in source order, files ordered by name. Only packages loaded with syntax
// can be inspected.
func (g *Graph) DeclaredInterfaces(obj *types.TypeName) []DeclaredInterface {
	pkg := g.Package(obj.Pkg())
	if pkg == nil || pkg.TypesInfo == nil {
		return nil
	}

	files := append([]*ast.File(nil), pkg.Syntax...)
	sort.SliceStable(files, func(i, j int) bool {
		return g.Fset.File(files[i].Pos()).Name() < g.Fset.File(files[j].Pos()).Name()
	})

	var declared []DeclaredInterface
	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.VAR {
				continue
			}
			for _, spec := range gen.Specs {
				value, ok := spec.(*ast.ValueSpec)
				if !ok || value.Type == nil {
					continue
				}
				for i, expr := range value.Values {
					if i >= len(value.Names) || value.Names[i].Name != "_" {
						continue
					}
					if !refersTo(pkg.TypesInfo.TypeOf(expr), obj) {
						continue
					}
					entry := DeclaredInterface{
						Source: types.ExprString(value.Type),
						Type:   pkg.TypesInfo.TypeOf(value.Type),
						Pos:    value.Type.Pos(),
					}
					if !containsIdentical(declared, entry) {
						declared = append(declared, entry)
					}
				}
			}
		}
	}
	return declared
}

// EvalInterfaces evaluates type expressions in the scope enclosing pos,
// typically inside the declaration of the annotated type so its type
// parameters are visible
func (g *Graph) EvalInterfaces(obj *types.TypeName, exprs []string, pos token.Pos) []DeclaredInterface {
	pkg := obj.Pkg()
	declared := make([]DeclaredInterface, 0, len(exprs))
	for _, expr := range exprs {
		entry := DeclaredInterface{Source: expr, Pos: pos}
		tv, err := types.Eval(g.Fset, pkg, pos, expr)
		switch {
		case err != nil:
			entry.Err = err
		case !tv.IsType():
			entry.Err = fmt.Errorf("%s is not a type", expr)
		default:
			entry.Type = tv.Type
		}
		declared = append(declared, entry)
	}
	return declared
}

// refersTo reports whether t is obj's type, a pointer to it, or an instance of it
func refersTo(t types.Type, obj *types.TypeName) bool {
	if t == nil {
		return false
	}
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}
	named, ok := t.(*types.Named)
	return ok && named.Origin().Obj() == obj
}

func containsIdentical(declared []DeclaredInterface, entry DeclaredInterface) bool {
	if !entry.Resolved() {
		return false
	}
	for _, d := range declared {
		if d.Resolved() && types.Identical(d.Type, entry.Type) {
			return true
		}
	}
	return false
}
