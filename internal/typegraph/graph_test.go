package typegraph_test

import (
	"go/ast"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/delegate/internal/typegraph"
	"github.com/toyz/delegate/internal/typegraph/typegraphtest"
)

const shapes = `package shapes

import "fmt"

type Namer interface {
	Name() string
}

// Shape is something with an area.
type Shape interface {
	Area() float64
	Namer
	fmt.Stringer
}

type Solid interface {
	Shape
	// Volume returns the volume.
	//
	// Deprecated: use Measure instead.
	Volume() float64
}

type base struct{}

func (base) Name() string { return "base" }

type Cube struct {
	base
	side float64
}

func (c *Cube) Area() float64   { return 6 * c.side * c.side }
func (c *Cube) Volume() float64 { return c.side * c.side * c.side }
func (c *Cube) String() string  { return "cube" }

type Box[T any] struct {
	items []T
}

func (b *Box[T]) Get(i int) T { return b.items[i] }

type Getter[T any] interface {
	Get(i int) T
}
`

func loadShapes(t *testing.T, extra map[string]string) *typegraph.Graph {
	files := map[string]string{"shapes/shapes.go": shapes}
	for name, content := range extra {
		files[name] = content
	}
	graph, _ := typegraphtest.Load(t, files)
	return graph
}

func names(fns []*types.Func) []string {
	result := make([]string, len(fns))
	for i, fn := range fns {
		result[i] = fn.Name()
	}
	return result
}

func funcs(methods []typegraph.Method) []*types.Func {
	result := make([]*types.Func, len(methods))
	for i, m := range methods {
		result[i] = m.Func
	}
	return result
}

func TestVisibleMethods(t *testing.T) {
	graph := loadShapes(t, nil)

	solid := typegraphtest.LookupType(t, graph, "shapes", "Solid")
	assert.Equal(t, []string{"Volume", "Area", "Name", "String"}, names(funcs(typegraph.VisibleMethods(solid.Type()))))

	cube := typegraphtest.LookupType(t, graph, "shapes", "Cube")
	assert.Equal(t, []string{"Area", "Name", "String", "Volume"}, names(funcs(typegraph.VisibleMethods(cube.Type()))))
}

func TestInterfacePredicates(t *testing.T) {
	graph := loadShapes(t, nil)

	shape := typegraphtest.LookupType(t, graph, "shapes", "Shape")
	cube := typegraphtest.LookupType(t, graph, "shapes", "Cube")

	assert.True(t, typegraph.IsInterface(shape.Type()))
	assert.False(t, typegraph.IsInterface(cube.Type()))
	assert.False(t, typegraph.IsInterface(types.Typ[types.Invalid]))
	assert.False(t, typegraph.IsValid(nil))

	embedded := typegraph.EmbeddedInterfaces(shape.Type())
	require.Len(t, embedded, 2)
	assert.Equal(t, "example.com/app/shapes.Namer", embedded[0].String())
	assert.Equal(t, "fmt.Stringer", embedded[1].String())
	assert.Equal(t, []string{"Area"}, names(typegraph.ExplicitMethods(shape.Type())))

	assert.True(t, typegraph.IsAssignable(types.NewPointer(cube.Type()), shape.Type()))
	assert.False(t, typegraph.IsAssignable(cube.Type(), shape.Type()))
}

func TestOverridesAndObjectMethods(t *testing.T) {
	graph := loadShapes(t, nil)

	shape := typegraphtest.LookupType(t, graph, "shapes", "Shape")
	cube := typegraphtest.LookupType(t, graph, "shapes", "Cube")

	byName := func(fns []*types.Func, name string) *types.Func {
		for _, fn := range fns {
			if fn.Name() == name {
				return fn
			}
		}
		t.Fatalf("method %s not found", name)
		return nil
	}

	cubeMethods := funcs(typegraph.VisibleMethods(cube.Type()))
	shapeMethods := funcs(typegraph.VisibleMethods(shape.Type()))

	assert.True(t, typegraph.Overrides(byName(cubeMethods, "Area"), byName(shapeMethods, "Area")))
	assert.False(t, typegraph.Overrides(byName(cubeMethods, "Area"), byName(shapeMethods, "Name")))
	assert.True(t, typegraph.IsObjectMethod(byName(cubeMethods, "String")))
	assert.False(t, typegraph.IsObjectMethod(byName(cubeMethods, "Name")))
}

func TestIsSubsignature(t *testing.T) {
	str := types.Typ[types.String]
	params := func(variadic bool, ts ...types.Type) *types.Signature {
		vars := make([]*types.Var, len(ts))
		for i, typ := range ts {
			vars[i] = types.NewParam(token.NoPos, nil, "", typ)
		}
		return types.NewSignatureType(nil, nil, nil, types.NewTuple(vars...), nil, variadic)
	}

	assert.True(t, typegraph.IsSubsignature(params(false, str), params(false, str)))
	assert.False(t, typegraph.IsSubsignature(params(false, str), params(false, types.Typ[types.Int])))
	assert.False(t, typegraph.IsSubsignature(
		params(true, types.NewSlice(str)),
		params(false, types.NewSlice(str)),
	))
}

func TestDeclaredInterfaces(t *testing.T) {
	graph := loadShapes(t, map[string]string{
		"shapes/b_assert.go": "package shapes\n\nvar _ Solid = &Cube{}\n",
		"shapes/a_assert.go": "package shapes\n\nimport \"fmt\"\n\nvar (\n\t_ fmt.Stringer = (*Cube)(nil)\n\t_ Shape = new(Cube)\n\t_ fmt.Stringer = new(Cube)\n)\n",
	})

	cube := typegraphtest.LookupType(t, graph, "shapes", "Cube")
	declared := graph.DeclaredInterfaces(cube)

	sources := make([]string, len(declared))
	for i, d := range declared {
		assert.True(t, d.Resolved())
		sources[i] = d.Source
	}
	assert.Equal(t, []string{"fmt.Stringer", "Shape", "Solid"}, sources)
}

func TestEvalInterfaces(t *testing.T) {
	graph := loadShapes(t, nil)

	box := typegraphtest.LookupType(t, graph, "shapes", "Box")
	named := box.Type().(*types.Named)
	pkg := graph.Package(box.Pkg())
	require.NotNil(t, pkg)

	// evaluate inside the type declaration so T is in scope
	var pos token.Pos
	for _, file := range pkg.Syntax {
		ast.Inspect(file, func(n ast.Node) bool {
			if spec, ok := n.(*ast.TypeSpec); ok && spec.Name.Name == "Box" {
				pos = spec.End() - 1
			}
			return true
		})
	}
	require.True(t, pos.IsValid())

	declared := graph.EvalInterfaces(box, []string{"Getter[T]", "Missing", "fmt.Sprint"}, pos)
	require.Len(t, declared, 3)

	require.True(t, declared[0].Resolved())
	getter := declared[0].Type
	assert.True(t, typegraph.IsInterface(getter))

	instance := typegraph.DeclaredType(box)
	assert.True(t, types.Identical(instance.(*types.Named).TypeArgs().At(0), named.TypeParams().At(0)))
	assert.True(t, types.AssignableTo(types.NewPointer(instance), getter))

	assert.Error(t, declared[1].Err)
	assert.Error(t, declared[2].Err)
}

func TestDeprecation(t *testing.T) {
	graph := loadShapes(t, nil)

	solid := typegraphtest.LookupType(t, graph, "shapes", "Solid")
	methods := typegraph.VisibleMethods(solid.Type())
	assert.Equal(t, "example.com/app/shapes.Shape", methods[1].Owner.String())

	message, ok := graph.Deprecation(methods[0].Func)
	assert.True(t, ok)
	assert.Equal(t, "use Measure instead.", message)

	_, ok = graph.Deprecation(methods[1].Func)
	assert.False(t, ok)

	doc := graph.Doc(typegraphtest.LookupType(t, graph, "shapes", "Shape"))
	require.NotNil(t, doc)
	assert.Equal(t, "Shape is something with an area.\n", doc.Text())
}

func TestLoad_ToleratesTypeErrors(t *testing.T) {
	graph := loadShapes(t, map[string]string{
		"shapes/use.go": "package shapes\n\nvar _ = newGeneratedWrapper(nil)\n",
	})

	assert.NotEmpty(t, graph.Errors())
	assert.NotNil(t, typegraphtest.LookupType(t, graph, "shapes", "Cube"))
}
