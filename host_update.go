package floyd

import (
	"strings"

	"github.com/mok9/floyd/types"
)

func registerUpdateHosts(table HostTable) {
	dyn := types.MakeDynamic()
	reg(table, "update", dyn, []*types.Type{dyn, dyn, dyn}, hostUpdate)
}

// hostUpdate dispatches spec.md §4.6's update contract across the
// three container kinds it names. Struct keys may be dotted for a
// recursive non-destructive update (spec.md §4.6, grounded on the
// original's update_struct_member_deep/_shallow split).
func hostUpdate(it *Interpreter, args []Value) (Value, error) {
	container, key, value := args[0], args[1], args[2]
	switch container.Tag() {
	case types.Struct:
		path, err := key.GetString()
		if err != nil {
			return Value{}, err
		}
		return updateStruct(container, strings.Split(path, "."), value)
	case types.Vector:
		idx, err := key.GetInt()
		if err != nil {
			return Value{}, err
		}
		return updateVector(container, idx, value)
	case types.Dict:
		k, err := key.GetString()
		if err != nil {
			return Value{}, err
		}
		return updateDict(container, k, value)
	default:
		return Value{}, newError(TypeMismatch, "update: unsupported container kind %s", container.Tag())
	}
}

func updateStruct(sv Value, path []string, value Value) (Value, error) {
	si, err := sv.GetStruct()
	if err != nil {
		return Value{}, err
	}
	idx := si.Type().MemberIndex(path[0])
	if idx < 0 {
		return Value{}, newError(UndefinedSymbol, "struct %s has no member %q", si.Type().Signature(), path[0])
	}
	members := append([]Value(nil), si.Members()...)
	for i := range members {
		if i != idx {
			members[i] = members[i].Retain()
		}
	}
	if len(path) == 1 {
		declared := si.Type().Members()[idx].Type
		if value.Type().Signature() != declared.Signature() {
			return Value{}, newError(TypeMismatch, "update: member %q expects %s, got %s", path[0], declared.Signature(), value.Type().Signature())
		}
		members[idx] = value.Retain()
		return NewStruct(si.Type(), members), nil
	}
	inner, err := updateStruct(members[idx], path[1:], value)
	if err != nil {
		return Value{}, err
	}
	members[idx] = inner
	return NewStruct(si.Type(), members), nil
}

func updateVector(vv Value, idx int32, value Value) (Value, error) {
	vi, err := vv.GetVector()
	if err != nil {
		return Value{}, err
	}
	if idx < 0 || int(idx) >= vi.Len() {
		return Value{}, newError(IndexOutOfBounds, "update: vector index %d out of bounds (len %d)", idx, vi.Len())
	}
	if value.Type().Signature() != vi.Elem().Signature() {
		return Value{}, newError(TypeMismatch, "update: vector element expects %s, got %s", vi.Elem().Signature(), value.Type().Signature())
	}
	items := append([]Value(nil), vi.Items()...)
	for i := range items {
		if i != int(idx) {
			items[i] = items[i].Retain()
		}
	}
	items[idx] = value.Retain()
	return NewVector(vi.Elem(), items), nil
}

func updateDict(dv Value, key string, value Value) (Value, error) {
	di, err := dv.GetDict()
	if err != nil {
		return Value{}, err
	}
	if value.Type().Signature() != di.ValueType().Signature() {
		return Value{}, newError(TypeMismatch, "update: dict value expects %s, got %s", di.ValueType().Signature(), value.Type().Signature())
	}
	keys := append([]string(nil), di.Keys()...)
	entries := make(map[string]Value, len(keys)+1)
	for _, k := range keys {
		v, _ := di.Get(k)
		entries[k] = v.Retain()
	}
	if _, exists := entries[key]; !exists {
		keys = append(keys, key)
	} else {
		entries[key].Release()
	}
	entries[key] = value.Retain()
	return NewDict(di.ValueType(), keys, entries), nil
}
