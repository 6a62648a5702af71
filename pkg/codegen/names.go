package codegen

import (
	"go/types"
	"strings"
)

// TypeName is a type reference rendered relative to the file being generated.
type TypeName interface {
	render(im *ImportManager) string
	// nilCheck returns a boolean expression that is true when expr is nil,
	// or "" when values of the type cannot be nil.
	nilCheck(expr string) string
}

// TypeOf references a go/types type.
func TypeOf(t types.Type) TypeName {
	return goType{t: t}
}

type goType struct {
	t types.Type
}

func (g goType) render(im *ImportManager) string {
	return types.TypeString(g.t, im.Qualifier())
}

func (g goType) nilCheck(expr string) string {
	if _, ok := types.Unalias(g.t).(*types.TypeParam); ok {
		return "any(" + expr + ") == nil"
	}
	switch g.t.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Map, *types.Slice, *types.Chan, *types.Signature:
		return expr + " == nil"
	}
	return ""
}

// Type returns the wrapped go/types type
func (g goType) Type() types.Type {
	return g.t
}

// Error is the predeclared error type.
func Error() TypeName {
	return TypeOf(types.Universe.Lookup("error").Type())
}

// Qualified references a named type or package member by import path.
func Qualified(importPath, name string) *QualifiedName {
	return &QualifiedName{ImportPath: importPath, Name: name}
}

// QualifiedName is a package member reference.
type QualifiedName struct {
	ImportPath  string
	PackageName string // optional, defaults to the last path element
	Name        string
	Nillable    bool // set for interface, func, map and similar types
}

// AsNillable marks the referenced type as one whose values may be nil
func (q *QualifiedName) AsNillable() *QualifiedName {
	q.Nillable = true
	return q
}

func (q *QualifiedName) render(im *ImportManager) string {
	if qualifier := im.Qualify(q.ImportPath, q.PackageName); qualifier != "" {
		return qualifier + "." + q.Name
	}
	return q.Name
}

func (q *QualifiedName) nilCheck(expr string) string {
	if q.Nillable {
		return expr + " == nil"
	}
	return ""
}

// Local references a name declared in the generated package.
func Local(name string) TypeName {
	return local(name)
}

type local string

func (l local) render(*ImportManager) string { return string(l) }

func (l local) nilCheck(string) string { return "" }

// Pointer references *elem.
func Pointer(elem TypeName) TypeName {
	return pointer{elem: elem}
}

type pointer struct {
	elem TypeName
}

func (p pointer) render(im *ImportManager) string { return "*" + p.elem.render(im) }

func (p pointer) nilCheck(expr string) string { return expr + " == nil" }

// Func references an unnamed function type.
func Func(params []TypeName, results []TypeName) TypeName {
	return funcType{params: params, results: results}
}

type funcType struct {
	params  []TypeName
	results []TypeName
}

func (f funcType) render(im *ImportManager) string {
	var b strings.Builder
	b.WriteString("func(")
	b.WriteString(renderList(f.params, im))
	b.WriteString(")")
	switch len(f.results) {
	case 0:
	case 1:
		b.WriteString(" " + f.results[0].render(im))
	default:
		b.WriteString(" (" + renderList(f.results, im) + ")")
	}
	return b.String()
}

func (f funcType) nilCheck(expr string) string { return expr + " == nil" }

// Parameterized references base instantiated with args.
func Parameterized(base TypeName, args ...TypeName) TypeName {
	if len(args) == 0 {
		return base
	}
	return parameterized{base: base, args: args}
}

type parameterized struct {
	base TypeName
	args []TypeName
}

func (p parameterized) render(im *ImportManager) string {
	return p.base.render(im) + "[" + renderList(p.args, im) + "]"
}

func (p parameterized) nilCheck(expr string) string { return p.base.nilCheck(expr) }

// TypeVariable is a type parameter. Bounds are combined into one constraint.
type TypeVariable struct {
	Name   string
	Bounds []TypeName
}

// NewTypeVariable creates a type parameter constrained by every bound
func NewTypeVariable(name string, bounds ...TypeName) *TypeVariable {
	return &TypeVariable{Name: name, Bounds: bounds}
}

func (v *TypeVariable) render(*ImportManager) string { return v.Name }

func (v *TypeVariable) nilCheck(expr string) string { return "any(" + expr + ") == nil" }

// Constraint renders the type parameter constraint
func (v *TypeVariable) Constraint(im *ImportManager) string {
	switch len(v.Bounds) {
	case 0:
		return "any"
	case 1:
		return v.Bounds[0].render(im)
	}
	var b strings.Builder
	b.WriteString("interface {\n")
	for _, bound := range v.Bounds {
		b.WriteString("\t" + bound.render(im) + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// Render renders a type name outside of a file, mostly for messages and tests
func Render(t TypeName, localPath string) string {
	return t.render(NewImportManager(localPath))
}

func renderList(names []TypeName, im *ImportManager) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name.render(im)
	}
	return strings.Join(parts, ", ")
}
