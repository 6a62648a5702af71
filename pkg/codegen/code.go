package codegen

import (
	"fmt"
	"strconv"
	"strings"
)

// Namer is anything that can be referenced with $N.
type Namer interface {
	Ident() string
}

// CodeBlock is a fragment of Go code built from format strings.
//
// Placeholders:
//
//	$N  a name: string or Namer
//	$S  a string literal, quoted with strconv.Quote
//	$L  a literal emitted as-is: *CodeBlock, fmt.Stringer or any value
//	$T  a TypeName, qualified and imported as needed
//	$$  a dollar sign
type CodeBlock struct {
	parts []codePart
}

type codePart struct {
	format string
	args   []any
}

// NewCode creates an empty code block
func NewCode() *CodeBlock {
	return &CodeBlock{}
}

// Code creates a code block from a single format string
func Code(format string, args ...any) *CodeBlock {
	return NewCode().Add(format, args...)
}

// Statement creates a code block holding one statement
func Statement(format string, args ...any) *CodeBlock {
	return NewCode().AddStatement(format, args...)
}

// Add appends code without a trailing newline
func (c *CodeBlock) Add(format string, args ...any) *CodeBlock {
	c.parts = append(c.parts, codePart{format: format, args: args})
	return c
}

// AddStatement appends one statement on its own line
func (c *CodeBlock) AddStatement(format string, args ...any) *CodeBlock {
	return c.Add(format+"\n", args...)
}

// AddCode appends another block
func (c *CodeBlock) AddCode(other *CodeBlock) *CodeBlock {
	if other != nil {
		c.parts = append(c.parts, other.parts...)
	}
	return c
}

// BeginControlFlow opens a block: "if x {", "for ... {", "defer func() {"
func (c *CodeBlock) BeginControlFlow(format string, args ...any) *CodeBlock {
	return c.Add(format+" {\n", args...)
}

// NextControlFlow closes the current block and opens the next: "} else {"
func (c *CodeBlock) NextControlFlow(format string, args ...any) *CodeBlock {
	return c.Add("} "+format+" {\n", args...)
}

// EndControlFlow closes the current block
func (c *CodeBlock) EndControlFlow() *CodeBlock {
	return c.Add("}\n")
}

// EndControlFlowWith closes the current block with a suffix, as in "}()"
func (c *CodeBlock) EndControlFlowWith(suffix string) *CodeBlock {
	return c.Add("}" + suffix + "\n")
}

// IsEmpty reports whether the block holds no code
func (c *CodeBlock) IsEmpty() bool {
	return c == nil || len(c.parts) == 0
}

// Render renders the block, registering imports with im
func (c *CodeBlock) Render(im *ImportManager) (string, error) {
	if c == nil {
		return "", nil
	}
	var b strings.Builder
	for _, part := range c.parts {
		if err := renderPart(&b, part, im); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// String renders the block relative to an anonymous package. Intended for
// debugging and tests.
func (c *CodeBlock) String() string {
	s, err := c.Render(NewImportManager(""))
	if err != nil {
		return "<invalid code block: " + err.Error() + ">"
	}
	return s
}

func renderPart(b *strings.Builder, part codePart, im *ImportManager) error {
	next := 0
	format := part.format
	for i := 0; i < len(format); i++ {
		if format[i] != '$' {
			b.WriteByte(format[i])
			continue
		}
		if i+1 >= len(format) {
			return fmt.Errorf("dangling '$' in %q", format)
		}
		i++
		verb := format[i]
		if verb == '$' {
			b.WriteByte('$')
			continue
		}
		if next >= len(part.args) {
			return fmt.Errorf("missing argument for $%c in %q", verb, format)
		}
		arg := part.args[next]
		next++

		s, err := renderArg(verb, arg, im)
		if err != nil {
			return fmt.Errorf("%w in %q", err, format)
		}
		b.WriteString(s)
	}
	if next != len(part.args) {
		return fmt.Errorf("%d unused arguments in %q", len(part.args)-next, format)
	}
	return nil
}

func renderArg(verb byte, arg any, im *ImportManager) (string, error) {
	switch verb {
	case 'N':
		switch v := arg.(type) {
		case string:
			return v, nil
		case Namer:
			return v.Ident(), nil
		}
		return "", fmt.Errorf("$N expects a string or Namer, got %T", arg)
	case 'S':
		return strconv.Quote(fmt.Sprint(arg)), nil
	case 'L':
		switch v := arg.(type) {
		case *CodeBlock:
			return v.Render(im)
		case fmt.Stringer:
			return v.String(), nil
		}
		return fmt.Sprint(arg), nil
	case 'T':
		if t, ok := arg.(TypeName); ok {
			return t.render(im), nil
		}
		return "", fmt.Errorf("$T expects a TypeName, got %T", arg)
	}
	return "", fmt.Errorf("unknown placeholder $%c", verb)
}

// Join joins blocks with a separator, as in argument lists
func Join(blocks []*CodeBlock, separator string) *CodeBlock {
	joined := NewCode()
	for i, block := range blocks {
		if i > 0 {
			joined.Add("$L", separator)
		}
		joined.AddCode(block)
	}
	return joined
}
