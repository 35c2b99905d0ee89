package floyd

import "github.com/mok9/floyd/types"

// zeroValue returns the default value for a freshly reserved local
// slot of the given type, before any store instruction has run. For
// extended kinds this is an ext==nil placeholder; a correct program
// (produced by the out-of-scope code generator) always stores into a
// local before loading it, per spec.md §9's note on the correctness
// burden this places upstream.
func zeroValue(t *types.Type) Value {
	switch t.Kind() {
	case types.Bool:
		return NewBool(false)
	case types.Int:
		return NewInt(0)
	case types.Float:
		return NewFloat(0)
	default:
		return Value{tag: t.Kind()}
	}
}

func localTypesOf(locals []Symbol) []*types.Type {
	out := make([]*types.Type, len(locals))
	for i, l := range locals {
		out[i] = l.Type
	}
	return out
}

// funcKindType is a function-kind marker used only so slotToValue can
// recover Kind()==Function when popping a callee value off the stack;
// its own signature is never inspected.
var funcKindType = types.MakeFunction(types.MakeVoid(), nil)
