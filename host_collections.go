package floyd

import "github.com/mok9/floyd/types"

func registerCollectionHosts(table HostTable) {
	dyn := types.MakeDynamic()
	str := types.MakeString()
	intT := types.MakeInt()
	boolT := types.MakeBool()

	reg(table, "size", intT, []*types.Type{dyn}, hostSize)
	reg(table, "find", intT, []*types.Type{dyn, dyn}, hostFind)
	reg(table, "exists", boolT, []*types.Type{dyn, str}, hostExists)
	reg(table, "erase", dyn, []*types.Type{dyn, str}, hostErase)
	reg(table, "push_back", dyn, []*types.Type{dyn, dyn}, hostPushBack)
	reg(table, "subset", dyn, []*types.Type{dyn, intT, intT}, hostSubset)
	reg(table, "replace", dyn, []*types.Type{dyn, intT, intT, dyn}, hostReplace)
}

func hostSize(it *Interpreter, args []Value) (Value, error) {
	a := args[0]
	switch a.Tag() {
	case types.String:
		s, _ := a.GetString()
		return NewInt(int32(len([]rune(s)))), nil
	case types.Json:
		j, _ := a.GetJSON()
		switch j.Kind() {
		case JSONArray:
			return NewInt(int32(len(j.Array()))), nil
		case JSONObject:
			return NewInt(int32(len(j.Keys()))), nil
		case JSONString:
			return NewInt(int32(len([]rune(j.Str())))), nil
		default:
			return Value{}, newError(TypeMismatch, "size: json value has no length")
		}
	case types.Vector:
		v, _ := a.GetVector()
		return NewInt(int32(v.Len())), nil
	case types.Dict:
		d, _ := a.GetDict()
		return NewInt(int32(d.Len())), nil
	default:
		return Value{}, newError(TypeMismatch, "size: unsupported kind %s", a.Tag())
	}
}

func hostFind(it *Interpreter, args []Value) (Value, error) {
	haystack, needle := args[0], args[1]
	switch haystack.Tag() {
	case types.String:
		s, _ := haystack.GetString()
		n, err := needle.GetString()
		if err != nil {
			return Value{}, err
		}
		runes := []rune(s)
		sub := []rune(n)
		for i := 0; i+len(sub) <= len(runes); i++ {
			if string(runes[i:i+len(sub)]) == n {
				return NewInt(int32(i)), nil
			}
		}
		return NewInt(-1), nil
	case types.Vector:
		v, _ := haystack.GetVector()
		for i, item := range v.Items() {
			if item.Equal(needle) {
				return NewInt(int32(i)), nil
			}
		}
		return NewInt(-1), nil
	default:
		return Value{}, newError(TypeMismatch, "find: unsupported kind %s", haystack.Tag())
	}
}

func hostExists(it *Interpreter, args []Value) (Value, error) {
	d, err := args[0].GetDict()
	if err != nil {
		return Value{}, err
	}
	key, err := args[1].GetString()
	if err != nil {
		return Value{}, err
	}
	_, ok := d.Get(key)
	return NewBool(ok), nil
}

func hostErase(it *Interpreter, args []Value) (Value, error) {
	d, err := args[0].GetDict()
	if err != nil {
		return Value{}, err
	}
	key, err := args[1].GetString()
	if err != nil {
		return Value{}, err
	}
	keys := make([]string, 0, len(d.Keys()))
	entries := make(map[string]Value, len(d.Keys()))
	for _, k := range d.Keys() {
		if k == key {
			continue
		}
		v, _ := d.Get(k)
		keys = append(keys, k)
		entries[k] = v.Retain()
	}
	return NewDict(d.ValueType(), keys, entries), nil
}

func hostPushBack(it *Interpreter, args []Value) (Value, error) {
	container, elem := args[0], args[1]
	switch container.Tag() {
	case types.String:
		s, _ := container.GetString()
		e, err := elem.GetString()
		if err != nil {
			return Value{}, err
		}
		return NewString(s + e), nil
	case types.Vector:
		v, _ := container.GetVector()
		items := make([]Value, 0, v.Len()+1)
		for _, it := range v.Items() {
			items = append(items, it.Retain())
		}
		items = append(items, elem.Retain())
		return NewVector(v.Elem(), items), nil
	default:
		return Value{}, newError(TypeMismatch, "push_back: unsupported kind %s", container.Tag())
	}
}

func hostSubset(it *Interpreter, args []Value) (Value, error) {
	seq := args[0]
	i, err := args[1].GetInt()
	if err != nil {
		return Value{}, err
	}
	j, err := args[2].GetInt()
	if err != nil {
		return Value{}, err
	}
	switch seq.Tag() {
	case types.String:
		s, _ := seq.GetString()
		runes := []rune(s)
		lo, hi := clampRange(int(i), int(j), len(runes))
		return NewString(string(runes[lo:hi])), nil
	case types.Vector:
		v, _ := seq.GetVector()
		lo, hi := clampRange(int(i), int(j), v.Len())
		items := make([]Value, 0, hi-lo)
		for _, it := range v.Items()[lo:hi] {
			items = append(items, it.Retain())
		}
		return NewVector(v.Elem(), items), nil
	default:
		return Value{}, newError(TypeMismatch, "subset: unsupported kind %s", seq.Tag())
	}
}

func hostReplace(it *Interpreter, args []Value) (Value, error) {
	seq := args[0]
	i, err := args[1].GetInt()
	if err != nil {
		return Value{}, err
	}
	j, err := args[2].GetInt()
	if err != nil {
		return Value{}, err
	}
	repl := args[3]
	switch seq.Tag() {
	case types.String:
		s, _ := seq.GetString()
		r, err := repl.GetString()
		if err != nil {
			return Value{}, err
		}
		runes := []rune(s)
		lo, hi := clampRange(int(i), int(j), len(runes))
		return NewString(string(runes[:lo]) + r + string(runes[hi:])), nil
	case types.Vector:
		v, _ := seq.GetVector()
		rv, err := repl.GetVector()
		if err != nil {
			return Value{}, err
		}
		lo, hi := clampRange(int(i), int(j), v.Len())
		items := make([]Value, 0, lo+rv.Len()+(v.Len()-hi))
		for _, it := range v.Items()[:lo] {
			items = append(items, it.Retain())
		}
		for _, it := range rv.Items() {
			items = append(items, it.Retain())
		}
		for _, it := range v.Items()[hi:] {
			items = append(items, it.Retain())
		}
		return NewVector(v.Elem(), items), nil
	default:
		return Value{}, newError(TypeMismatch, "replace: unsupported kind %s", seq.Tag())
	}
}

// clampRange implements the half-open-range clamping spec.md §4.6 and
// §8 properties 7-8 require: i>j yields an empty range, and both ends
// clamp into [0, length].
func clampRange(i, j, length int) (int, int) {
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	if j < 0 {
		j = 0
	}
	if j > length {
		j = length
	}
	if i > j {
		return i, i
	}
	return i, j
}
