package strategies

import (
	"github.com/toyz/delegate/pkg/codegen"
	"github.com/toyz/delegate/pkg/delegate"
)

// Passthrough generates <Type>Wrapper, which forwards every call unchanged.
// Exported wrappers get a New<Type>Wrapper factory. It is the starting point
// for hand-written decorators that override a few methods.
type Passthrough struct {
	delegate.NoopStrategy
}

func (Passthrough) Name() string { return "passthrough" }

func (Passthrough) SupportedAnnotations() []string {
	return []string{"Delegate"}
}

func (Passthrough) GeneratedTypeName(name string) string {
	return name + "Wrapper"
}

func (Passthrough) Customize(args delegate.CustomizeArguments, spec *codegen.TypeSpec) {
	addFactory(args, spec)
}
