package floyd

import "github.com/mok9/floyd/types"

func registerJSONHosts(table HostTable) {
	dyn := types.MakeDynamic()
	str := types.MakeString()
	jsonT := types.MakeJson()
	typeidT := types.MakeTypeid()
	intT := types.MakeInt()

	reg(table, "decode_json", jsonT, []*types.Type{str}, hostDecodeJSON)
	reg(table, "encode_json", str, []*types.Type{jsonT}, hostEncodeJSON)
	reg(table, "flatten_to_json", jsonT, []*types.Type{dyn}, hostFlattenToJSON)
	reg(table, "unflatten_from_json", dyn, []*types.Type{jsonT, typeidT}, hostUnflattenFromJSON)
	reg(table, "get_json_type", intT, []*types.Type{jsonT}, hostGetJSONType)
}

func hostDecodeJSON(it *Interpreter, args []Value) (Value, error) {
	s, err := args[0].GetString()
	if err != nil {
		return Value{}, err
	}
	n, err := DecodeJSON(s)
	if err != nil {
		return Value{}, err
	}
	return NewJSON(n), nil
}

func hostEncodeJSON(it *Interpreter, args []Value) (Value, error) {
	j, err := args[0].GetJSON()
	if err != nil {
		return Value{}, err
	}
	return NewString(EncodeJSON(j)), nil
}

func hostFlattenToJSON(it *Interpreter, args []Value) (Value, error) {
	j, err := Flatten(args[0])
	if err != nil {
		return Value{}, err
	}
	return NewJSON(j), nil
}

func hostUnflattenFromJSON(it *Interpreter, args []Value) (Value, error) {
	j, err := args[0].GetJSON()
	if err != nil {
		return Value{}, err
	}
	t, err := args[1].GetTypeidValue()
	if err != nil {
		return Value{}, err
	}
	return Unflatten(j, t)
}

func hostGetJSONType(it *Interpreter, args []Value) (Value, error) {
	j, err := args[0].GetJSON()
	if err != nil {
		return Value{}, err
	}
	return NewInt(int32(GetJSONType(j))), nil
}
