package delegate

import (
	"fmt"
	"go/types"
	"path/filepath"
	"runtime/debug"
	"strings"
	"unicode"

	"github.com/toyz/delegate/internal/typegraph"
	"github.com/toyz/delegate/pkg/codegen"
)

const (
	// DefaultFilePrefix starts the name of every generated file
	DefaultFilePrefix = "autogen_"

	delegateFieldName = "delegate"
)

// Processor generates one wrapper per annotated type using a Strategy.
type Processor struct {
	strategy   Strategy
	filePrefix string
}

// NewProcessor creates a processor for strategy
func NewProcessor(strategy Strategy) *Processor {
	return &Processor{strategy: strategy, filePrefix: DefaultFilePrefix}
}

// SetFilePrefix changes the generated file name prefix
func (p *Processor) SetFilePrefix(prefix string) {
	p.filePrefix = prefix
}

// Strategy returns the processor's strategy
func (p *Processor) Strategy() Strategy {
	return p.strategy
}

// Name identifies the processor in generated headers
func (p *Processor) Name() string {
	if named, ok := p.strategy.(Named); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", p.strategy)
}

// SupportedAnnotations returns the marker names handled by the strategy
func (p *Processor) SupportedAnnotations() []string {
	return p.strategy.SupportedAnnotations()
}

// Process generates wrappers for the elements carrying a supported
// annotation. Problems are reported through the context's Messager and only
// exclude the affected type. It returns the paths of the written files.
func (p *Processor) Process(ctx *ProcessorContext, elements []Element) []string {
	supported := make(map[string]bool)
	for _, name := range p.strategy.SupportedAnnotations() {
		supported[name] = true
	}

	var annotated []*Element
	seen := make(map[*types.TypeName]bool)
	for i := range elements {
		element := &elements[i]
		if !supported[element.Annotation] {
			continue
		}
		typeElement := p.annotatedType(ctx, element)
		if typeElement == nil {
			continue
		}
		if obj, ok := typeElement.TypeName(); ok {
			if seen[obj] {
				continue
			}
			seen[obj] = true
		}
		annotated = append(annotated, typeElement)
	}

	var written []string
	for _, element := range annotated {
		model := p.toModelType(ctx, element)
		if model == nil {
			continue
		}
		if path, ok := p.generate(ctx, element, model); ok {
			written = append(written, path)
		}
	}
	return written
}

// annotatedType maps an annotated element to the type it marks. Methods and
// constructors mark their enclosing type.
func (p *Processor) annotatedType(ctx *ProcessorContext, element *Element) *Element {
	switch element.Kind {
	case KindClass, KindInterface:
		return element
	case KindMethod, KindConstructor:
		if element.Enclosing != nil {
			return p.annotatedType(ctx, element.Enclosing)
		}
	}
	ctx.Errorf(element.Pos, element.Name, "Unsupported annotated element kind: %s", element.Kind)
	return nil
}

func (p *Processor) toModelType(ctx *ProcessorContext, element *Element) *AnnotatedType {
	obj, ok := element.TypeName()
	if !ok || !typegraph.IsValid(obj.Type()) {
		ctx.Errorf(element.Pos, element.Name, "Type could not be resolved: %s", element.Name)
		return nil
	}

	interfaces := collectInterfaces(ctx, element, obj)
	if len(interfaces) == 0 {
		ctx.Errorf(element.Pos, obj.Name(), "No interfaces found on annotated type: %s", obj.Name())
		return nil
	}

	model, err := NewAnnotatedType(obj, interfaces, resolveMethods(typegraph.DeclaredType(obj), interfaces), element.Parameters)
	if err != nil {
		ctx.Errorf(element.Pos, obj.Name(), "%v", err)
		return nil
	}
	return model
}

// generate builds, checks and writes the wrapper of one annotated type.
// Panics from strategy hooks and rendering are reported as write failures.
func (p *Processor) generate(ctx *ProcessorContext, element *Element, model *AnnotatedType) (path string, ok bool) {
	name := model.Name()
	defer func() {
		if r := recover(); r != nil {
			ctx.Errorf(element.Pos, name, "Failed to write type '%s': panic: %v\n%s", name, r, debug.Stack())
			path, ok = "", false
		}
	}()

	name = p.generatedName(model)
	file := p.generateFile(ctx, model)
	if origins := file.Type.OriginatingElements(); len(origins) != 1 {
		ctx.Errorf(element.Pos, file.Type.Name, "Expected '%s' to have a single originating element.", file.Type.Name)
	}

	src, err := file.Render()
	if err == nil {
		err = ctx.Filer.WriteFile(file.Dir, file.Name, src)
	}
	if err != nil {
		ctx.Errorf(element.Pos, file.Type.Name, "Failed to write type '%s': %v", file.Type.Name, err)
		return "", false
	}
	return filepath.Join(file.Dir, file.Name), true
}

func (p *Processor) generatedName(model *AnnotatedType) string {
	return matchExportedness(p.strategy.GeneratedTypeName(model.Name()), model.Object().Exported())
}

func (p *Processor) generateFile(ctx *ProcessorContext, model *AnnotatedType) *codegen.File {
	spec := p.generateType(ctx, model)

	source := ctx.Graph.Position(model.Object().Pos()).Filename
	suffix := ".go"
	if strings.HasSuffix(source, "_test.go") {
		suffix = "_test.go"
	}

	return &codegen.File{
		Name:        p.filePrefix + SnakeCase(spec.Name) + suffix,
		Dir:         filepath.Dir(source),
		PackageName: model.Package().Name(),
		PackagePath: model.Package().Path(),
		Header:      []string{fmt.Sprintf("Code generated by delegate (%s). DO NOT EDIT.", p.Name())},
		Type:        spec,
	}
}

func (p *Processor) generateType(ctx *ProcessorContext, model *AnnotatedType) *codegen.TypeSpec {
	name := p.generatedName(model)
	spec := codegen.NewType(name)
	spec.AddOriginatingElement(model.Object())

	if tparams := model.TypeParams(); tparams != nil {
		for i := 0; i < tparams.Len(); i++ {
			tparam := tparams.At(i)
			spec.AddTypeParam(codegen.NewTypeVariable(tparam.Obj().Name(), codegen.TypeOf(tparam.Constraint())))
		}
	}

	interfaces := model.Interfaces()
	names := make([]string, len(interfaces))
	for i, iface := range interfaces {
		spec.Implements = append(spec.Implements, codegen.TypeOf(iface))
		names[i] = types.TypeString(iface, types.RelativeTo(model.Package()))
	}
	spec.Doc = []string{fmt.Sprintf("%s forwards the methods of %s to a delegate.", name, strings.Join(names, ", "))}

	delegateType := p.strategy.DelegateType(DelegateTypeArguments{Context: ctx, Type: model})
	if tv, ok := delegateType.(*codegen.TypeVariable); ok {
		spec.AddTypeParam(tv)
	}

	delegateField := codegen.Field(delegateFieldName, delegateType)
	fields := append([]codegen.FieldSpec{delegateField},
		p.strategy.AdditionalFields(AdditionalFieldsArguments{Context: ctx, Type: model})...)
	for _, field := range fields {
		spec.AddField(field)
	}

	ctor := constructor(spec, fields)
	spec.AddFunc(ctor)

	for _, method := range model.Methods() {
		fn, shape := createMethod(ctx, method)
		fn.Receiver = receiverName(name, fn.Params)
		args := DelegateMethodArguments{
			Context:  ctx,
			Type:     model,
			Method:   method,
			Delegate: delegateField,
			Receiver: fn.Receiver,
		}
		synthesizeMethod(p.strategy, args, fn, shape)
		spec.AddMethod(fn)
	}

	if !spec.HasMethod("String") {
		spec.AddMethod(stringMethod(spec, delegateField))
	}

	p.strategy.Customize(CustomizeArguments{
		Context:           ctx,
		Type:              model,
		GeneratedTypeName: spec.TypeName(),
		DelegateTypeName:  delegateType,
		Constructor:       ctor.Name,
	}, spec)
	return spec
}

// constructor takes every field without an initializer and panics on nil
func constructor(spec *codegen.TypeSpec, fields []codegen.FieldSpec) *codegen.FuncSpec {
	fn := codegen.NewFunc(ConstructorName(spec.Name))
	fn.TypeParams = spec.CopyTypeParams()
	fn.Returns(codegen.Pointer(spec.TypeName()))

	for _, field := range fields {
		if field.Initializer != nil {
			continue
		}
		fn.AddParam(field.Name, field.Type)
		if check := codegen.NilCheck(field.Type, field.Name); check != "" {
			fn.Body.BeginControlFlow("if $L", check).
				AddStatement("panic($S)", field.Name+" is nil").
				EndControlFlow()
		}
	}

	fn.Body.AddStatement("return &$T{", spec.TypeName())
	for _, field := range fields {
		if field.Initializer != nil {
			fn.Body.AddStatement("$N: $L,", field, field.Initializer)
		} else {
			fn.Body.AddStatement("$N: $N,", field, field)
		}
	}
	fn.Body.AddStatement("}")
	return fn
}

func stringMethod(spec *codegen.TypeSpec, delegateField codegen.FieldSpec) *codegen.FuncSpec {
	fn := codegen.NewFunc("String").Returns(codegen.Local("string"))
	fn.Receiver = receiverName(spec.Name, nil)
	fn.Body.AddStatement("return $S + $T($N.$N) + $S",
		spec.Name+"{", codegen.Qualified("fmt", "Sprint"), fn.Receiver, delegateField, "}")
	return fn
}

// ConstructorName is the unexported constructor of a generated type
func ConstructorName(typeName string) string {
	return "new" + matchExportedness(typeName, true)
}

// SnakeCase converts a Go identifier to snake_case, keeping acronyms together:
// "HTTPGreeterWrapper" becomes "http_greeter_wrapper"
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
