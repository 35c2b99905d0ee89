package floyd

import (
	"github.com/mok9/floyd/types"
)

// Flatten implements spec.md §4.3: a lossy, total conversion of a
// value to JSON. Struct type identity is erased (structs become
// plain objects); typeid-values become their signature text.
//
// Flattening a function value fails with TypeMismatch: the original
// implementation (host_functions.cpp's flatten_to_json) has no case
// for function values, and spec.md §9 suggests exactly this outcome.
func Flatten(v Value) (JSONNode, error) {
	switch v.tag {
	case types.Bool:
		b, _ := v.GetBool()
		return NewJSONBool(b), nil
	case types.Int:
		i, _ := v.GetInt()
		return NewJSONNumber(float64(i)), nil
	case types.Float:
		f, _ := v.GetFloat()
		return NewJSONNumber(float64(f)), nil
	case types.String:
		s, _ := v.GetString()
		return NewJSONString(s), nil
	case types.Json:
		j, _ := v.GetJSON()
		return j, nil
	case types.Typeid:
		t, _ := v.GetTypeidValue()
		return NewJSONString(t.Signature()), nil
	case types.Struct:
		s, _ := v.GetStruct()
		obj := JSONNode{kind: JSONObject}
		for i, m := range s.typ.Members() {
			fv, err := Flatten(s.members[i])
			if err != nil {
				return JSONNode{}, err
			}
			obj = obj.WithMember(m.Name, fv)
		}
		return obj, nil
	case types.Vector:
		vec, _ := v.GetVector()
		elems := make([]JSONNode, len(vec.items))
		for i, item := range vec.items {
			fv, err := Flatten(item)
			if err != nil {
				return JSONNode{}, err
			}
			elems[i] = fv
		}
		return NewJSONArray(elems), nil
	case types.Dict:
		d, _ := v.GetDict()
		obj := JSONNode{kind: JSONObject}
		for _, k := range d.keys {
			val, _ := d.Get(k)
			fv, err := Flatten(val)
			if err != nil {
				return JSONNode{}, err
			}
			obj = obj.WithMember(k, fv)
		}
		return obj, nil
	default:
		return JSONNode{}, newError(TypeMismatch, "cannot flatten a value of kind %s to JSON", v.tag)
	}
}

// Unflatten implements spec.md §4.3: driven entirely by target, it
// validates the JSON shape for each kind and fails with
// JsonShapeMismatch otherwise. Struct unflattening looks up each
// declared member by name; unknown extra keys are ignored, missing
// keys fail.
func Unflatten(j JSONNode, target *types.Type) (Value, error) {
	switch target.Kind() {
	case types.Bool:
		if !j.IsBool() {
			return Value{}, shapeErr("bool", j)
		}
		return NewBool(j.Bool()), nil
	case types.Int:
		if !j.IsNumber() {
			return Value{}, shapeErr("int", j)
		}
		return NewInt(int32(j.Number())), nil
	case types.Float:
		if !j.IsNumber() {
			return Value{}, shapeErr("float", j)
		}
		return NewFloat(float32(j.Number())), nil
	case types.String:
		if !j.IsString() {
			return Value{}, shapeErr("string", j)
		}
		return NewString(j.Str()), nil
	case types.Json:
		return NewJSON(j), nil
	case types.Typeid:
		if !j.IsString() {
			return Value{}, shapeErr("typeid", j)
		}
		t, ok := types.FromSignature(j.Str())
		if !ok {
			return Value{}, newError(JsonShapeMismatch, "invalid type signature %q", j.Str())
		}
		return NewTypeidValue(t), nil
	case types.Struct:
		if !j.IsObject() {
			return Value{}, shapeErr("struct", j)
		}
		members := make([]Value, len(target.Members()))
		for i, m := range target.Members() {
			fv, ok := j.Lookup(m.Name)
			if !ok {
				return Value{}, newError(JsonShapeMismatch, "missing member %q for struct %s", m.Name, target.Signature())
			}
			uv, err := Unflatten(fv, m.Type)
			if err != nil {
				return Value{}, err
			}
			members[i] = uv
		}
		return NewStruct(target, members), nil
	case types.Vector:
		if !j.IsArray() {
			return Value{}, shapeErr("vector", j)
		}
		arr := j.Array()
		items := make([]Value, len(arr))
		for i, e := range arr {
			uv, err := Unflatten(e, target.Elem())
			if err != nil {
				return Value{}, err
			}
			items[i] = uv
		}
		return NewVector(target.Elem(), items), nil
	case types.Dict:
		if !j.IsObject() {
			return Value{}, shapeErr("dict", j)
		}
		keys := j.Keys()
		entries := make(map[string]Value, len(keys))
		for _, k := range keys {
			fv, _ := j.Lookup(k)
			uv, err := Unflatten(fv, target.Elem())
			if err != nil {
				return Value{}, err
			}
			entries[k] = uv
		}
		return NewDict(target.Elem(), keys, entries), nil
	default:
		return Value{}, newError(JsonShapeMismatch, "cannot unflatten JSON into a value of kind %s", target.Kind())
	}
}

func shapeErr(wanted string, j JSONNode) error {
	return newError(JsonShapeMismatch, "expected JSON shape for %s, got JSON kind %d", wanted, GetJSONType(j))
}
