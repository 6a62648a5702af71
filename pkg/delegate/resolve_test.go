package delegate

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/delegate/internal/typegraph"
	"github.com/toyz/delegate/internal/typegraph/typegraphtest"
)

func lookupMethod(t *testing.T, typ *types.TypeName, name string) *types.Func {
	t.Helper()
	obj, _, _ := types.LookupFieldOrMethod(typ.Type(), true, typ.Pkg(), name)
	fn, ok := obj.(*types.Func)
	require.True(t, ok, "%s has no method %s", typ.Name(), name)
	return fn
}

func methodsByName(methods []AnnotatedTypeMethod) map[string]AnnotatedTypeMethod {
	byName := make(map[string]AnnotatedTypeMethod, len(methods))
	for _, m := range methods {
		byName[m.Name()] = m
	}
	return byName
}

func TestResolveMethods_UnrelatedInterfaces(t *testing.T) {
	graph, _ := typegraphtest.Load(t, map[string]string{"store/store.go": `package store

type X interface{ Get(key string) string }
type Y interface{ Get(key string) string }

type Memory struct{}

func (m *Memory) Get(key string) string { return key }
func (m *Memory) Internal()             {}
func (m *Memory) String() string        { return "memory" }

var (
	_ X = (*Memory)(nil)
	_ Y = (*Memory)(nil)
)
`})
	x := typegraphtest.LookupType(t, graph, "store", "X")
	y := typegraphtest.LookupType(t, graph, "store", "Y")
	memory := typegraphtest.LookupType(t, graph, "store", "Memory")

	methods := resolveMethods(typegraph.DeclaredType(memory), []types.Type{x.Type(), y.Type()})
	require.Len(t, methods, 1)

	get := methods[0]
	assert.Equal(t, "Get", get.Name())
	assert.Same(t, lookupMethod(t, memory, "Get"), get.Implementation())
	assert.Equal(t, []*types.Func{lookupMethod(t, x, "Get"), lookupMethod(t, y, "Get")}, get.Overridden())
}

func TestResolveMethods_Diamond(t *testing.T) {
	graph, _ := typegraphtest.Load(t, map[string]string{"store/store.go": `package store

type A interface{ Get(key string) string }

type B interface {
	A
	Put(key, value string)
}

type C interface {
	A
	Delete(key string)
}

type Memory struct{}

func (m *Memory) Get(key string) string { return key }
func (m *Memory) Put(key, value string) {}
func (m *Memory) Delete(key string)     {}
func (m *Memory) Internal()             {}

var (
	_ B = (*Memory)(nil)
	_ C = (*Memory)(nil)
)
`})
	a := typegraphtest.LookupType(t, graph, "store", "A")
	b := typegraphtest.LookupType(t, graph, "store", "B")
	c := typegraphtest.LookupType(t, graph, "store", "C")
	memory := typegraphtest.LookupType(t, graph, "store", "Memory")

	methods := methodsByName(resolveMethods(typegraph.DeclaredType(memory), []types.Type{b.Type(), c.Type()}))
	require.Len(t, methods, 3)
	assert.NotContains(t, methods, "Internal")

	assert.Equal(t, []*types.Func{lookupMethod(t, a, "Get")}, methods["Get"].Overridden())
	assert.Equal(t, []*types.Func{lookupMethod(t, b, "Put")}, methods["Put"].Overridden())
	assert.Equal(t, []*types.Func{lookupMethod(t, c, "Delete")}, methods["Delete"].Overridden())
}
