package floyd

import (
	"time"

	"github.com/mok9/floyd/types"
)

func registerMiscHosts(table HostTable) {
	dyn := types.MakeDynamic()
	void := types.MakeVoid()
	str := types.MakeString()
	boolT := types.MakeBool()
	intT := types.MakeInt()
	typeidT := types.MakeTypeid()

	reg(table, "print", void, []*types.Type{dyn}, hostPrint)
	reg(table, "assert", void, []*types.Type{boolT}, hostAssert)
	reg(table, "to_string", str, []*types.Type{dyn}, hostToString)
	reg(table, "to_pretty_string", str, []*types.Type{dyn}, hostToPrettyString)
	reg(table, "typeof", typeidT, []*types.Type{dyn}, hostTypeof)
	reg(table, "get_time_of_day", intT, nil, hostGetTimeOfDay)
}

// hostPrint implements spec.md §4.6's print contract: append the
// compact form to the print log. The log is flushed to stdout by the
// embedder at end-of-program, not printed immediately here.
func hostPrint(it *Interpreter, args []Value) (Value, error) {
	s := ToCompactString(args[0])
	it.PrintLog = append(it.PrintLog, s)
	return Void(), nil
}

func hostAssert(it *Interpreter, args []Value) (Value, error) {
	b, err := args[0].GetBool()
	if err != nil {
		return Value{}, err
	}
	if !b {
		it.PrintLog = append(it.PrintLog, "Assertion failed.")
		return Value{}, newError(AssertionFailed, "assertion failed")
	}
	return Void(), nil
}

func hostToString(it *Interpreter, args []Value) (Value, error) {
	return NewString(ToCompactString(args[0])), nil
}

func hostToPrettyString(it *Interpreter, args []Value) (Value, error) {
	s, err := ToPrettyString(args[0])
	if err != nil {
		return Value{}, err
	}
	return NewString(s), nil
}

func hostTypeof(it *Interpreter, args []Value) (Value, error) {
	return NewTypeidValue(args[0].Type()), nil
}

// hostGetTimeOfDay returns the whole milliseconds elapsed since the
// interpreter was created; any sub-millisecond remainder is truncated.
func hostGetTimeOfDay(it *Interpreter, args []Value) (Value, error) {
	ms := time.Since(it.startTime).Milliseconds()
	return NewInt(int32(ms)), nil
}
