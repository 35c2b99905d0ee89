package floyd

import "github.com/mok9/floyd/types"

// Equal implements spec.md §4.2's equality rule: two values are equal
// iff their tags match and their payloads match, recursively for
// composite kinds.
func (v Value) Equal(other Value) bool {
	if v.tag != other.tag {
		return false
	}
	switch v.tag {
	case types.Undefined, types.Dynamic, types.Void:
		return true
	case types.Bool:
		return v.b == other.b
	case types.Int:
		return v.i == other.i
	case types.Float:
		return v.f == other.f
	case types.String:
		a, _ := v.GetString()
		b, _ := other.GetString()
		return a == b
	case types.Json:
		a, _ := v.GetJSON()
		b, _ := other.GetJSON()
		return a.Equal(b)
	case types.Typeid:
		a, _ := v.GetTypeidValue()
		b, _ := other.GetTypeidValue()
		return a.Equal(b)
	case types.Struct:
		a, _ := v.GetStruct()
		b, _ := other.GetStruct()
		if !a.typ.Equal(b.typ) || len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if !a.members[i].Equal(b.members[i]) {
				return false
			}
		}
		return true
	case types.Vector:
		a, _ := v.GetVector()
		b, _ := other.GetVector()
		if !a.elem.Equal(b.elem) || len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !a.items[i].Equal(b.items[i]) {
				return false
			}
		}
		return true
	case types.Dict:
		a, _ := v.GetDict()
		b, _ := other.GetDict()
		if !a.valType.Equal(b.valType) || len(a.entries) != len(b.entries) {
			return false
		}
		for k, av := range a.entries {
			bv, ok := b.entries[k]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	case types.Function:
		a, _ := v.GetFunction()
		b, _ := other.GetFunction()
		return a.typ.Equal(b.typ) && a.id == b.id
	default:
		return false
	}
}
