package delegate

import (
	"fmt"
	"go/types"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/toyz/delegate/internal/typegraph"
	"github.com/toyz/delegate/pkg/codegen"
)

// resolveMethods lists the methods of declared that implement one of the
// wrapper's interfaces. Methods every wrapper provides itself are dropped,
// as are methods no interface declares.
func resolveMethods(declared types.Type, interfaces []types.Type) []AnnotatedTypeMethod {
	var methods []AnnotatedTypeMethod
	for _, m := range typegraph.VisibleMethods(declared) {
		if typegraph.IsObjectMethod(m.Func) {
			continue
		}
		overridden := interfaceMethods(m, interfaces)
		if len(overridden) == 0 {
			continue
		}
		methods = append(methods, NewAnnotatedTypeMethod(m.Func, overridden))
	}
	return methods
}

// overrideWalk collects the interface methods a method implements, directly
// or through embedded interfaces.
type overrideWalk struct {
	target     *types.Func
	interfaces []types.Type // interfaces of a concrete owner
	found      []*types.Func
	seen       map[*types.Func]bool
	visited    typeutil.Map
}

func interfaceMethods(m typegraph.Method, interfaces []types.Type) []*types.Func {
	w := &overrideWalk{
		target:     m.Func,
		interfaces: interfaces,
		seen:       make(map[*types.Func]bool),
	}
	w.collect(m.Func, m.Owner)
	return w.found
}

func (w *overrideWalk) collect(fn *types.Func, owner types.Type) {
	if typegraph.IsInterface(owner) {
		if w.seen[fn] {
			return
		}
		w.seen[fn] = true
		w.found = append(w.found, fn)
	}
	for _, iface := range w.interfacesOf(owner) {
		w.collectFrom(iface)
	}
}

func (w *overrideWalk) interfacesOf(owner types.Type) []types.Type {
	if typegraph.IsInterface(owner) {
		return typegraph.EmbeddedInterfaces(owner)
	}
	return w.interfaces
}

func (w *overrideWalk) collectFrom(iface types.Type) {
	if w.visited.At(iface) != nil {
		return
	}
	w.visited.Set(iface, true)

	for _, m := range typegraph.ExplicitMethods(iface) {
		if typegraph.Overrides(w.target, m) {
			w.collect(m, iface)
		}
	}
	for _, embedded := range typegraph.EmbeddedInterfaces(iface) {
		w.collectFrom(embedded)
	}
}

// findContractMethod returns the interface method whose signature the
// generated method follows: the only candidate, or the first one that is a
// subsignature of every other. When the interfaces disagree the
// implementation itself is used.
func findContractMethod(method AnnotatedTypeMethod) *types.Func {
	overridden := method.Overridden()
	if len(overridden) == 1 {
		return overridden[0]
	}
	for _, candidate := range overridden {
		sig := signature(candidate)
		allMatch := true
		for _, other := range overridden {
			if other == candidate {
				continue
			}
			if !typegraph.IsSubsignature(sig, signature(other)) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return candidate
		}
	}
	return method.Implementation()
}

func signature(fn *types.Func) *types.Signature {
	return fn.Type().(*types.Signature)
}

var errorType = types.Universe.Lookup("error").Type()

// methodShape describes the results of a contract method.
type methodShape struct {
	values   []types.Type // results without a trailing error
	hasError bool
}

func shapeOf(sig *types.Signature) methodShape {
	var shape methodShape
	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		typ := results.At(i).Type()
		if i == results.Len()-1 && types.Identical(typ, errorType) {
			shape.hasError = true
			continue
		}
		shape.values = append(shape.values, typ)
	}
	return shape
}

// isVoid reports whether the method returns nothing at all
func (s methodShape) isVoid() bool {
	return len(s.values) == 0 && !s.hasError
}

// resultLocals names the value results: _result for one, _result0.._resultN for several
func (s methodShape) resultLocals() []LocalVariable {
	locals := make([]LocalVariable, len(s.values))
	for i, typ := range s.values {
		name := resultName
		if len(s.values) > 1 {
			name += strconv.Itoa(i)
		}
		locals[i] = LocalVariable{Type: codegen.TypeOf(typ), Name: name}
	}
	return locals
}

const (
	resultName    = "_result"
	failureName   = "_failure"
	recoveredName = "_recovered"
	handledName   = "_handled"
)

// createMethod builds the signature of a delegated method: name and types
// from the contract method, parameter names from the implementation
func createMethod(ctx *ProcessorContext, method AnnotatedTypeMethod) (*codegen.FuncSpec, methodShape) {
	contract := findContractMethod(method)
	sig := signature(contract)
	implParams := signature(method.Implementation()).Params()

	fn := codegen.NewFunc(contract.Name())
	fn.Variadic = sig.Variadic()

	params := sig.Params()
	taken := make(map[string]bool, params.Len())
	for i := 0; i < params.Len(); i++ {
		typ := params.At(i).Type()
		if fn.Variadic && i == params.Len()-1 {
			if slice, ok := typ.(*types.Slice); ok {
				typ = slice.Elem()
			}
		}
		name := parameterName(implParams, i, taken)
		taken[name] = true
		fn.AddParam(name, codegen.TypeOf(typ))
	}

	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		fn.Returns(codegen.TypeOf(results.At(i).Type()))
	}

	for _, overridden := range method.Overridden() {
		if message, ok := ctx.Graph.Deprecation(overridden); ok {
			if message == "" {
				message = fmt.Sprintf("%s is deprecated.", overridden.Name())
			}
			fn.Doc = []string{"Deprecated: " + message}
			break
		}
	}
	return fn, shapeOf(sig)
}

// parameterName uses the implementation's parameter name; blank and missing
// names become arg<i>
func parameterName(implParams *types.Tuple, i int, taken map[string]bool) string {
	var name string
	if i < implParams.Len() {
		name = implParams.At(i).Name()
	}
	if name == "" || name == "_" || taken[name] {
		name = "arg" + strconv.Itoa(i)
		for taken[name] {
			name += "_"
		}
	}
	return name
}

// delegateInvocation is the call of the contract method on the delegate field
func delegateInvocation(args DelegateMethodArguments, fn *codegen.FuncSpec) *codegen.CodeBlock {
	params := make([]*codegen.CodeBlock, len(fn.Params))
	for i, param := range fn.Params {
		if fn.Variadic && i == len(fn.Params)-1 {
			params[i] = codegen.Code("$N...", param)
		} else {
			params[i] = codegen.Code("$N", param)
		}
	}
	return codegen.Code("$N.$N.$N($L)", args.Receiver, args.Delegate, fn.Name, codegen.Join(params, ", "))
}

// receiverName is the lower-cased first letter of the generated type,
// numbered when a parameter already uses it
func receiverName(typeName string, params []codegen.ParamSpec) string {
	first, _ := utf8.DecodeRuneInString(typeName)
	base := string(unicode.ToLower(first))
	if !isIdentStart(first) {
		base = "w"
	}

	name := base
	for i := 2; hasParam(params, name); i++ {
		name = base + strconv.Itoa(i)
	}
	return name
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func hasParam(params []codegen.ParamSpec, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// matchExportedness makes name exported exactly when the annotated type is
func matchExportedness(name string, exported bool) string {
	first, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return name
	}
	if exported {
		return strings.ToUpper(string(first)) + name[size:]
	}
	return strings.ToLower(string(first)) + name[size:]
}
