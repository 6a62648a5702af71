package delegate

import (
	"fmt"
	"go/types"

	"github.com/toyz/delegate/internal/typegraph"
	"github.com/toyz/delegate/pkg/codegen"
)

// AnnotatedType is one type bearing the marker annotation, with the
// interfaces and methods its wrapper delegates.
type AnnotatedType struct {
	obj        *types.TypeName
	declared   types.Type
	parameters map[string]string
	interfaces []types.Type
	methods    []AnnotatedTypeMethod
}

// NewAnnotatedType builds the model of an annotated type. At least one
// interface is required.
func NewAnnotatedType(obj *types.TypeName, interfaces []types.Type, methods []AnnotatedTypeMethod, parameters map[string]string) (*AnnotatedType, error) {
	if obj == nil {
		return nil, fmt.Errorf("annotated type requires a type")
	}
	if len(interfaces) == 0 {
		return nil, fmt.Errorf("annotated type %s requires at least one interface", obj.Name())
	}
	params := make(map[string]string, len(parameters))
	for k, v := range parameters {
		params[k] = v
	}
	return &AnnotatedType{
		obj:        obj,
		declared:   typegraph.DeclaredType(obj),
		parameters: params,
		interfaces: append([]types.Type(nil), interfaces...),
		methods:    append([]AnnotatedTypeMethod(nil), methods...),
	}, nil
}

// Object returns the annotated type's declaration
func (t *AnnotatedType) Object() *types.TypeName { return t.obj }

// Name returns the annotated type's name
func (t *AnnotatedType) Name() string { return t.obj.Name() }

// Package returns the package declaring the annotated type
func (t *AnnotatedType) Package() *types.Package { return t.obj.Pkg() }

// Type is the declared type, instantiated with its own type parameters when generic
func (t *AnnotatedType) Type() types.Type { return t.declared }

// TypeParams returns the annotated type's type parameters, if any
func (t *AnnotatedType) TypeParams() *types.TypeParamList {
	if named, ok := types.Unalias(t.obj.Type()).(*types.Named); ok {
		return named.TypeParams()
	}
	return nil
}

// Interfaces returns the interfaces in declared order
func (t *AnnotatedType) Interfaces() []types.Type {
	return append([]types.Type(nil), t.interfaces...)
}

// Methods returns the methods to delegate
func (t *AnnotatedType) Methods() []AnnotatedTypeMethod {
	return append([]AnnotatedTypeMethod(nil), t.methods...)
}

// Parameter returns an annotation parameter
func (t *AnnotatedType) Parameter(key string) (string, bool) {
	v, ok := t.parameters[key]
	return v, ok
}

// AnnotatedTypeMethod is one delegated method: the method as seen on the
// annotated type and the interface methods it implements.
type AnnotatedTypeMethod struct {
	implementation *types.Func
	overridden     []*types.Func
}

// NewAnnotatedTypeMethod keeps overridden in order, dropping repeated objects
func NewAnnotatedTypeMethod(implementation *types.Func, overridden []*types.Func) AnnotatedTypeMethod {
	seen := make(map[*types.Func]bool, len(overridden))
	unique := make([]*types.Func, 0, len(overridden))
	for _, fn := range overridden {
		if !seen[fn] {
			seen[fn] = true
			unique = append(unique, fn)
		}
	}
	return AnnotatedTypeMethod{implementation: implementation, overridden: unique}
}

// Implementation is the method declared on, or promoted to, the annotated type
func (m AnnotatedTypeMethod) Implementation() *types.Func { return m.implementation }

// Overridden returns the interface methods in discovery order
func (m AnnotatedTypeMethod) Overridden() []*types.Func {
	return append([]*types.Func(nil), m.overridden...)
}

// Name returns the method name
func (m AnnotatedTypeMethod) Name() string { return m.implementation.Name() }

// LocalVariable is a synthetic local in a generated method body.
type LocalVariable struct {
	Type codegen.TypeName
	Name string
}

// Ident implements codegen.Namer
func (v LocalVariable) Ident() string { return v.Name }
