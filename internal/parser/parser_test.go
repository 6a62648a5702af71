package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/delegate/internal/typegraph/typegraphtest"
	"github.com/toyz/delegate/pkg/delegate"
)

const source = `// Package greet greets.
//
//delegate::Printing
package greet

import "fmt"

// Greeting says hello.
type Greeting interface {
	//delegate::Printing
	Greet(name string) (string, error)
}

// Greeter is annotated on the type.
//
//delegate::Printing -Implements="Greeting, fmt.Stringer"
type Greeter struct {
	//delegate::Printing
	prefix string
}

//delegate::Timing
func (g *Greeter) Greet(name string) (string, error) { return g.prefix + name, nil }

func (g *Greeter) String() string { return fmt.Sprint(g.prefix) }

type (
	// Box holds a value.
	//
	//delegate::Printing
	Box[T any] struct{ value T }

	//delegate::Printing
	Alias = Greeter
)

// NewGreeter builds a greeter.
//
//delegate::Printing
func NewGreeter() *Greeter { return &Greeter{} }

//delegate::Printing
func Hello() string { return "hello" }

//delegate::Printing
var Default = NewGreeter()

//delegate::Printing
const Name = "greet"

//delegate::Printing Broken
var broken int
`

func discover(t *testing.T) ([]delegate.Element, error) {
	graph, _ := typegraphtest.Load(t, map[string]string{"greet/greet.go": source})
	return NewParser(graph).Discover()
}

func TestParser_Discover(t *testing.T) {
	elements, err := discover(t)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid annotation")

	type found struct {
		kind       delegate.ElementKind
		name       string
		annotation string
		enclosing  string
	}
	var got []found
	for _, e := range elements {
		f := found{kind: e.Kind, name: e.Name, annotation: e.Annotation}
		if e.Enclosing != nil {
			f.enclosing = e.Enclosing.Name
		}
		got = append(got, f)
	}

	assert.Equal(t, []found{
		{kind: delegate.KindPackage, name: "greet", annotation: "Printing"},
		{kind: delegate.KindMethod, name: "Greeting.Greet", annotation: "Printing", enclosing: "Greeting"},
		{kind: delegate.KindClass, name: "Greeter", annotation: "Printing"},
		{kind: delegate.KindField, name: "Greeter.prefix", annotation: "Printing", enclosing: "Greeter"},
		{kind: delegate.KindMethod, name: "Greeter.Greet", annotation: "Timing", enclosing: "Greeter"},
		{kind: delegate.KindClass, name: "Box", annotation: "Printing"},
		{kind: delegate.KindAlias, name: "Alias", annotation: "Printing"},
		{kind: delegate.KindConstructor, name: "Greeter.NewGreeter", annotation: "Printing", enclosing: "Greeter"},
		{kind: delegate.KindFunction, name: "Hello", annotation: "Printing"},
		{kind: delegate.KindVariable, name: "Default", annotation: "Printing"},
		{kind: delegate.KindConstant, name: "Name", annotation: "Printing"},
	}, got)
}

func TestParser_DiscoverParameters(t *testing.T) {
	elements, _ := discover(t)

	var greeter, greet *delegate.Element
	for i := range elements {
		switch elements[i].Name {
		case "Greeter":
			greeter = &elements[i]
		case "Greeter.Greet":
			greet = &elements[i]
		}
	}
	require.NotNil(t, greeter)
	require.NotNil(t, greet)

	implements, ok := greeter.Parameter("Implements")
	assert.True(t, ok)
	assert.Equal(t, "Greeting, fmt.Stringer", implements)
	assert.True(t, greeter.EvalPos.IsValid())

	obj, ok := greeter.TypeName()
	require.True(t, ok)
	assert.Equal(t, "Greeter", obj.Name())

	// the enclosing type keeps its own annotation
	require.NotNil(t, greet.Enclosing)
	assert.Equal(t, "Printing", greet.Enclosing.Annotation)
	assert.Equal(t, "Greeting, fmt.Stringer", greet.Enclosing.Parameters["Implements"])
}

func TestParser_DiscoverWithoutAnnotations(t *testing.T) {
	graph, _ := typegraphtest.Load(t, map[string]string{
		"plain/plain.go": "package plain\n\n// Plain has a doc comment.\ntype Plain struct{}\n",
	})

	elements, err := NewParser(graph).Discover()
	require.NoError(t, err)
	assert.Empty(t, elements)
}
