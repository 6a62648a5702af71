package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedThing string

func (n namedThing) Ident() string { return string(n) }

func TestCodeBlock_Placeholders(t *testing.T) {
	im := NewImportManager("example.com/app")

	code := NewCode().
		AddStatement("$N := $T($S, $L)", "msg", Qualified("fmt", "Sprintf"), "%d items", 3).
		AddStatement("$N.$N = msg", namedThing("w"), Field("last", Local("string"))).
		AddStatement("cost := $$5")

	rendered, err := code.Render(im)
	require.NoError(t, err)
	assert.Equal(t, "msg := fmt.Sprintf(\"%d items\", 3)\nw.last = msg\ncost := $5\n", rendered)
	assert.Equal(t, []string{"fmt"}, im.Paths())
}

func TestCodeBlock_ControlFlow(t *testing.T) {
	code := NewCode().
		BeginControlFlow("defer func()").
		BeginControlFlow("if $N != nil", "err").
		AddStatement("panic(err)").
		NextControlFlow("else").
		AddStatement("return").
		EndControlFlow().
		EndControlFlowWith("()")

	assert.Equal(t, "defer func() {\nif err != nil {\npanic(err)\n} else {\nreturn\n}\n}()\n", code.String())
}

func TestCodeBlock_NestedLiteral(t *testing.T) {
	args := Join([]*CodeBlock{Code("$N", "a"), Code("$N...", "rest")}, ", ")
	call := Statement("fn($L)", args)

	assert.Equal(t, "fn(a, rest...)\n", call.String())
}

func TestCodeBlock_Errors(t *testing.T) {
	im := NewImportManager("")

	tests := []struct {
		name string
		code *CodeBlock
		want string
	}{
		{name: "missing argument", code: Code("$N"), want: "missing argument"},
		{name: "unused argument", code: Code("x", 1), want: "unused arguments"},
		{name: "bad name", code: Code("$N", 1), want: "$N expects"},
		{name: "bad type", code: Code("$T", "string"), want: "$T expects"},
		{name: "unknown verb", code: Code("$X", 1), want: "unknown placeholder"},
		{name: "dangling", code: Code("x$"), want: "dangling"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.code.Render(im)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCodeBlock_IsEmpty(t *testing.T) {
	var nilBlock *CodeBlock
	assert.True(t, nilBlock.IsEmpty())
	assert.True(t, NewCode().IsEmpty())
	assert.False(t, Statement("x()").IsEmpty())
}
