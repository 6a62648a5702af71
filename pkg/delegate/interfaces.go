package delegate

import (
	"go/types"

	"github.com/toyz/delegate/internal/annotations"
	"github.com/toyz/delegate/internal/typegraph"
)

// collectInterfaces returns the interfaces the wrapper of element implements.
// An interface yields itself. Other types yield their declared list: the
// Implements annotation parameter when present, otherwise the compile-time
// assertions in their package. Entries that do not resolve to interfaces are
// reported and skipped.
func collectInterfaces(ctx *ProcessorContext, element *Element, obj *types.TypeName) []types.Type {
	declared := typegraph.DeclaredType(obj)
	if typegraph.IsInterface(declared) {
		return []types.Type{declared}
	}

	var entries []typegraph.DeclaredInterface
	if list, ok := element.Parameter(annotations.ImplementsParameter); ok {
		pos := element.EvalPos
		if !pos.IsValid() {
			pos = obj.Pos()
		}
		entries = ctx.Graph.EvalInterfaces(obj, annotations.SplitList(list), pos)
	} else {
		entries = ctx.Graph.DeclaredInterfaces(obj)
	}

	var interfaces []types.Type
	for _, entry := range entries {
		switch {
		case !entry.Resolved():
			ctx.Errorf(element.Pos, obj.Name(), "Interface could not be resolved: %s", entry.Source)
		case !typegraph.IsInterface(entry.Type):
			ctx.Errorf(element.Pos, obj.Name(), "Expected the interface element to be an interface type. Type: %s", entry.Source)
		default:
			if !typegraph.IsAssignable(types.NewPointer(declared), entry.Type) {
				ctx.Warnf(element.Pos, obj.Name(), "%s does not implement %s", obj.Name(), entry.Source)
			}
			interfaces = append(interfaces, entry.Type)
		}
	}
	return interfaces
}
