package codegen

import (
	"go/types"
)

// FieldSpec describes a struct field of the generated type.
type FieldSpec struct {
	Name string
	Type TypeName
	// Initializer is assigned by the constructor. Fields without one become
	// constructor parameters.
	Initializer *CodeBlock
}

// Field creates a field spec
func Field(name string, typ TypeName) FieldSpec {
	return FieldSpec{Name: name, Type: typ}
}

// Ident implements Namer
func (f FieldSpec) Ident() string {
	return f.Name
}

// ParamSpec describes a function parameter.
type ParamSpec struct {
	Name string
	Type TypeName
}

// Ident implements Namer
func (p ParamSpec) Ident() string {
	return p.Name
}

// FuncSpec describes a function or method.
type FuncSpec struct {
	Name string
	Doc  []string
	// Receiver is the receiver variable name; empty for package functions.
	// Methods always use a pointer receiver on the generated type.
	Receiver   string
	TypeParams []*TypeVariable
	Params     []ParamSpec
	// Variadic renders the last parameter as ...T; its Type is the element type.
	Variadic bool
	Results  []TypeName
	Body     *CodeBlock
}

// NewFunc creates a function spec with an empty body
func NewFunc(name string) *FuncSpec {
	return &FuncSpec{Name: name, Body: NewCode()}
}

// AddParam appends a parameter
func (f *FuncSpec) AddParam(name string, typ TypeName) *FuncSpec {
	f.Params = append(f.Params, ParamSpec{Name: name, Type: typ})
	return f
}

// Returns appends result types
func (f *FuncSpec) Returns(results ...TypeName) *FuncSpec {
	f.Results = append(f.Results, results...)
	return f
}

// TypeSpec describes the generated named type and everything declared with it.
type TypeSpec struct {
	Name       string
	Doc        []string
	TypeParams []*TypeVariable
	// Implements is rendered as compile-time assertions in declaration order.
	// Generic types skip the assertions since they cannot be instantiated here.
	Implements []TypeName
	Fields     []FieldSpec
	Methods    []*FuncSpec
	// Funcs are package level functions such as constructors and factories.
	Funcs []*FuncSpec

	originatingElements []types.Object
}

// NewType creates a type spec
func NewType(name string) *TypeSpec {
	return &TypeSpec{Name: name}
}

// AddOriginatingElement records a source object the type was generated from
func (t *TypeSpec) AddOriginatingElement(obj types.Object) *TypeSpec {
	t.originatingElements = append(t.originatingElements, obj)
	return t
}

// OriginatingElements returns the objects the type was generated from
func (t *TypeSpec) OriginatingElements() []types.Object {
	return append([]types.Object(nil), t.originatingElements...)
}

// AddTypeParam appends a type parameter
func (t *TypeSpec) AddTypeParam(param *TypeVariable) *TypeSpec {
	t.TypeParams = append(t.TypeParams, param)
	return t
}

// AddField appends a field
func (t *TypeSpec) AddField(field FieldSpec) *TypeSpec {
	t.Fields = append(t.Fields, field)
	return t
}

// AddMethod appends a method
func (t *TypeSpec) AddMethod(method *FuncSpec) *TypeSpec {
	t.Methods = append(t.Methods, method)
	return t
}

// AddFunc appends a package level function
func (t *TypeSpec) AddFunc(fn *FuncSpec) *TypeSpec {
	t.Funcs = append(t.Funcs, fn)
	return t
}

// HasMethod reports whether a method with the given name was added
func (t *TypeSpec) HasMethod(name string) bool {
	for _, m := range t.Methods {
		if m.Name == name {
			return true
		}
	}
	return false
}

// TypeName references the generated type instantiated with its own type parameters
func (t *TypeSpec) TypeName() TypeName {
	args := make([]TypeName, len(t.TypeParams))
	for i, param := range t.TypeParams {
		args[i] = param
	}
	return Parameterized(Local(t.Name), args...)
}

// CopyTypeParams returns the type parameters for use on a function, such as a
// constructor of the generated type
func (t *TypeSpec) CopyTypeParams() []*TypeVariable {
	return append([]*TypeVariable(nil), t.TypeParams...)
}
