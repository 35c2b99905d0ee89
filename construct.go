package floyd

import "github.com/mok9/floyd/types"

// constructFromTypeid implements construct_value_from_typeid (spec.md
// §4.4): build a value of target's type from args, dispatching on
// target's kind. Every case fails with ConstructionTypeError on an
// arity or shape mismatch rather than silently coercing.
func constructFromTypeid(target *types.Type, args []Value) (Value, error) {
	switch target.Kind() {
	case types.Bool, types.Int, types.Float, types.String:
		return constructPrimitive(target, args)
	case types.Struct:
		return constructStructFrom(target, args)
	case types.Vector:
		return constructVectorFrom(target, args)
	case types.Dict:
		return constructDictFrom(target, args)
	default:
		return Value{}, newError(ConstructionTypeError, "cannot construct a value of kind %s from arguments", target.Kind())
	}
}

func constructPrimitive(target *types.Type, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, newError(ConstructionTypeError, "constructing %s requires exactly 1 argument, got %d", target.Kind(), len(args))
	}
	a := args[0]
	switch target.Kind() {
	case types.Bool:
		if a.Tag() != types.Bool {
			return Value{}, newError(ConstructionTypeError, "cannot construct bool from %s", a.Tag())
		}
		return a, nil
	case types.Int:
		switch a.Tag() {
		case types.Int:
			return a, nil
		case types.Float:
			f, _ := a.GetFloat()
			return NewInt(int32(f)), nil
		default:
			return Value{}, newError(ConstructionTypeError, "cannot construct int from %s", a.Tag())
		}
	case types.Float:
		switch a.Tag() {
		case types.Float:
			return a, nil
		case types.Int:
			i, _ := a.GetInt()
			return NewFloat(float32(i)), nil
		default:
			return Value{}, newError(ConstructionTypeError, "cannot construct float from %s", a.Tag())
		}
	case types.String:
		if a.Tag() != types.String {
			return Value{}, newError(ConstructionTypeError, "cannot construct string from %s", a.Tag())
		}
		return a, nil
	default:
		return Value{}, newError(ConstructionTypeError, "unreachable primitive kind %s", target.Kind())
	}
}

func constructStructFrom(target *types.Type, args []Value) (Value, error) {
	members := target.Members()
	if len(args) != len(members) {
		return Value{}, newError(ConstructionTypeError, "struct %s requires %d arguments, got %d", target.Signature(), len(members), len(args))
	}
	for i, m := range members {
		if args[i].Type().Signature() != m.Type.Signature() {
			return Value{}, newError(ConstructionTypeError, "struct %s member %q expects %s, got %s", target.Signature(), m.Name, m.Type.Signature(), args[i].Type().Signature())
		}
	}
	return NewStruct(target, args), nil
}

func constructVectorFrom(target *types.Type, args []Value) (Value, error) {
	elem := target.Elem()
	for _, a := range args {
		if a.Type().Signature() != elem.Signature() {
			return Value{}, newError(ConstructionTypeError, "vector %s element expects %s, got %s", target.Signature(), elem.Signature(), a.Type().Signature())
		}
	}
	return NewVector(elem, args), nil
}

func constructDictFrom(target *types.Type, args []Value) (Value, error) {
	if len(args)%2 != 0 {
		return Value{}, newError(ConstructionTypeError, "dict %s requires an even number of key/value arguments, got %d", target.Signature(), len(args))
	}
	elem := target.Elem()
	keys := make([]string, 0, len(args)/2)
	entries := make(map[string]Value, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		k := args[i]
		v := args[i+1]
		if k.Tag() != types.String {
			return Value{}, newError(ConstructionTypeError, "dict %s key %d must be a string, got %s", target.Signature(), i/2, k.Tag())
		}
		if v.Type().Signature() != elem.Signature() {
			return Value{}, newError(ConstructionTypeError, "dict %s value expects %s, got %s", target.Signature(), elem.Signature(), v.Type().Signature())
		}
		ks, _ := k.GetString()
		k.Release()
		if old, exists := entries[ks]; !exists {
			keys = append(keys, ks)
		} else {
			old.Release()
		}
		entries[ks] = v
	}
	return NewDict(elem, keys, entries), nil
}
