package delegate

import (
	"go/token"
	"go/types"
)

// ElementKind is the kind of declaration a marker annotation is attached to.
type ElementKind int

const (
	KindClass ElementKind = iota // a non-interface named type
	KindInterface
	KindMethod
	KindConstructor // a package function returning T or *T
	KindField
	KindVariable
	KindConstant
	KindFunction
	KindAlias
	KindPackage
)

var kindNames = map[ElementKind]string{
	KindClass:       "class",
	KindInterface:   "interface",
	KindMethod:      "method",
	KindConstructor: "constructor",
	KindField:       "field",
	KindVariable:    "variable",
	KindConstant:    "constant",
	KindFunction:    "function",
	KindAlias:       "alias",
	KindPackage:     "package",
}

func (k ElementKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Element is an annotated declaration discovered in source.
type Element struct {
	Kind ElementKind
	Name string
	// Object is the declared object; nil for packages and unresolved declarations.
	Object types.Object
	// Enclosing is the type declaring a method, constructor or field.
	Enclosing *Element
	// Annotation is the marker name, Parameters its arguments.
	Annotation string
	Parameters map[string]string
	Pos        token.Pos
	// EvalPos lies inside the type declaration, so type expressions
	// evaluated there see the type's own type parameters.
	EvalPos token.Pos
}

// TypeName returns the declared type object, if the element is a type
func (e *Element) TypeName() (*types.TypeName, bool) {
	obj, ok := e.Object.(*types.TypeName)
	return obj, ok
}

// Parameter returns an annotation parameter
func (e *Element) Parameter(key string) (string, bool) {
	value, ok := e.Parameters[key]
	return value, ok
}
