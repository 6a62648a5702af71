package delegate

import "github.com/toyz/delegate/pkg/codegen"

// Strategy customizes the wrappers a Processor generates. Hooks returning a
// nil *codegen.CodeBlock contribute nothing. Embed NoopStrategy to inherit
// the defaults and override only what is needed.
type Strategy interface {
	// SupportedAnnotations returns the marker names that activate the strategy
	SupportedAnnotations() []string

	// GeneratedTypeName returns the name of the wrapper for an annotated type
	GeneratedTypeName(annotatedTypeName string) string

	// DelegateType returns the type of the delegate field. Returning a
	// *codegen.TypeVariable adds it to the wrapper's type parameters.
	DelegateType(args DelegateTypeArguments) codegen.TypeName

	// Before returns code run before the delegate is called
	Before(args DelegateMethodArguments) *codegen.CodeBlock

	// OnSuccess returns code run after the delegate returned without failure.
	// results holds the value results, excluding a trailing error.
	OnSuccess(args DelegateMethodArguments, results []LocalVariable) *codegen.CodeBlock

	// OnFailure returns code run when the delegate returned a non-nil error
	// or panicked. The failure always propagates afterwards. It runs at most
	// once per call, even when the returned code itself panics.
	OnFailure(args DelegateMethodArguments, failure LocalVariable) *codegen.CodeBlock

	// AlwaysAfter returns code deferred until the delegate call finished,
	// successfully or not. It does not run when Before fails.
	AlwaysAfter(args DelegateMethodArguments) *codegen.CodeBlock

	// AdditionalFields returns fields added after the delegate field
	AdditionalFields(args AdditionalFieldsArguments) []codegen.FieldSpec

	// Customize is called last, with the complete wrapper spec
	Customize(args CustomizeArguments, spec *codegen.TypeSpec)
}

// Named is implemented by strategies that name themselves in generated headers.
type Named interface {
	Name() string
}

// NoopStrategy provides the default of every optional hook.
type NoopStrategy struct{}

// DelegateType resolves the delegate type from the annotated type's interfaces
func (NoopStrategy) DelegateType(args DelegateTypeArguments) codegen.TypeName {
	return ResolveDelegateType(args)
}

func (NoopStrategy) Before(DelegateMethodArguments) *codegen.CodeBlock { return nil }

func (NoopStrategy) OnSuccess(DelegateMethodArguments, []LocalVariable) *codegen.CodeBlock {
	return nil
}

func (NoopStrategy) OnFailure(DelegateMethodArguments, LocalVariable) *codegen.CodeBlock {
	return nil
}

func (NoopStrategy) AlwaysAfter(DelegateMethodArguments) *codegen.CodeBlock { return nil }

func (NoopStrategy) AdditionalFields(AdditionalFieldsArguments) []codegen.FieldSpec { return nil }

func (NoopStrategy) Customize(CustomizeArguments, *codegen.TypeSpec) {}

// DelegateTypeArguments are passed to Strategy.DelegateType.
type DelegateTypeArguments struct {
	Context *ProcessorContext
	Type    *AnnotatedType
}

// DelegateMethodArguments are passed to the method body hooks.
type DelegateMethodArguments struct {
	Context  *ProcessorContext
	Type     *AnnotatedType
	Method   AnnotatedTypeMethod
	Delegate codegen.FieldSpec
	// Receiver is the receiver name of the generated method.
	Receiver string
}

// AdditionalFieldsArguments are passed to Strategy.AdditionalFields.
type AdditionalFieldsArguments struct {
	Context *ProcessorContext
	Type    *AnnotatedType
}

// CustomizeArguments are passed to Strategy.Customize.
type CustomizeArguments struct {
	Context           *ProcessorContext
	Type              *AnnotatedType
	GeneratedTypeName codegen.TypeName
	DelegateTypeName  codegen.TypeName
	// Constructor is the name of the generated constructor function.
	Constructor string
}
