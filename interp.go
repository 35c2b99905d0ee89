package floyd

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mok9/floyd/types"
)

// HostFunc is the signature every host function implements. it gives
// access to the running interpreter (for print logging, calling back
// into scripted functions, etc); args are already popped and owned by
// the caller.
type HostFunc func(it *Interpreter, args []Value) (Value, error)

// HostEntry is one host function's table entry: its static type (used
// to validate argument count) plus its implementation.
type HostEntry struct {
	Name string
	Type *types.Type
	Fn   HostFunc
}

// HostTable maps host function id (>= HostFunctionBase) to its entry.
type HostTable map[int]HostEntry

// Interpreter is the tree-walking bytecode machine spec.md §3
// describes: an immutable program and host table, plus the mutable
// state a single run accumulates (stack, current frame base, print
// log, wall-clock start). RunID correlates one interpreter's log
// output and diagnostics across a run, in the way a request id would
// in a server.
type Interpreter struct {
	Program   *Program
	Host      HostTable
	Stack     *Stack
	frameBase int
	PrintLog  []string
	startTime time.Time
	RunID     string
	poisoned  *Error
}

// NewInterpreter constructs a ready-to-run interpreter for program,
// wiring in the default host function table.
func NewInterpreter(program *Program) *Interpreter {
	return &Interpreter{
		Program:   program,
		Host:      NewHostTable(),
		Stack:     NewStack(),
		startTime: time.Now(),
		RunID:     uuid.NewString(),
	}
}

// Run executes the program's top-level instruction sequence, spec.md
// §4.5's "run_main" entry point. It returns the top-level's final
// value (Void if the program fell off the end without an explicit
// return).
func (it *Interpreter) Run() (Value, error) {
	if it.poisoned != nil {
		return Value{}, it.poisoned
	}
	globalTypes := it.prepareGlobals()
	result, err := it.execInstrs(it.Program.Top, globalTypes)
	if err != nil {
		it.poisoned = asFloydError(err)
		return Value{}, it.poisoned
	}
	if result == nil {
		return Void(), nil
	}
	return *result, nil
}

// prepareGlobals pushes the globals table onto the stack in slot
// order, the shared first step of both Run and RunProgram.
func (it *Interpreter) prepareGlobals() []*types.Type {
	for _, g := range it.Program.Globals {
		switch {
		case g.Const != nil:
			it.Stack.Push(g.Const.Retain())
		case g.Type.Kind() == types.Function:
			it.Stack.Push(it.resolveFunctionGlobal(g))
		default:
			it.Stack.Push(zeroValue(g.Type))
		}
	}
	return localTypesOf(it.Program.Globals)
}

// resolveFunctionGlobal binds a function-typed global with no JSON
// constant (function values cannot round-trip through Flatten, so the
// bundle format never encodes one directly) to the host table entry of
// the same name. The compiler pipeline is expected to emit such
// globals for every host builtin a script references by name.
func (it *Interpreter) resolveFunctionGlobal(g Symbol) Value {
	if fv, ok := it.Host.HostFunctionValue(g.Name); ok {
		return fv
	}
	panic("floyd: function-typed global " + g.Name + " has no constant and no matching host function")
}

// RunProgram implements spec.md §4.5's run_program: prepare globals,
// push argv as a vector-of-string argument to main (function id 0),
// call it, and return its result.
func RunProgram(program *Program, argv []string) (Value, []string, error) {
	if err := program.Validate(); err != nil {
		return Value{}, nil, err
	}
	it := NewInterpreter(program)
	it.prepareGlobals()
	if len(program.Functions) == 0 {
		return Void(), it.PrintLog, nil
	}
	main := &program.Functions[0]
	args := make([]Value, 0, 1)
	if len(main.Type.Params()) > 0 {
		items := make([]Value, len(argv))
		for i, a := range argv {
			items[i] = NewString(a)
		}
		args = append(args, NewVector(types.MakeString(), items))
	}
	result, err := it.callScripted(main, args)
	if err != nil {
		it.poisoned = asFloydError(err)
		return Value{}, it.PrintLog, it.poisoned
	}
	return result, it.PrintLog, nil
}

func asFloydError(err error) *Error {
	if fe, ok := err.(*Error); ok {
		return fe
	}
	return newError(InterpreterPoisoned, "%v", err)
}

// execInstrs runs one instruction list (a function body or the
// top-level program) against the current frame, returning a non-nil
// value only when an OpReturn instruction fired.
func (it *Interpreter) execInstrs(body []Instruction, localTypes []*types.Type) (*Value, error) {
	pc := 0
	for pc < len(body) {
		instr := body[pc]
		next := pc + 1
		switch instr.Op {
		case OpLoadConst:
			it.Stack.Push(instr.Const.Retain())

		case OpLoadSymbol:
			v := it.loadSymbol(instr.Addr, localTypes)
			it.Stack.Push(v.Retain())

		case OpStoreSymbol:
			t := it.symbolType(instr.Addr, localTypes)
			v := it.Stack.Pop(t)
			it.storeSymbol(instr.Addr, v, localTypes)

		case OpAddInt, OpSubInt, OpMulInt, OpDivInt, OpModInt:
			b := it.Stack.Pop(types.MakeInt())
			a := it.Stack.Pop(types.MakeInt())
			bi, _ := b.GetInt()
			ai, _ := a.GetInt()
			r, err := intArith(instr.Op, ai, bi)
			if err != nil {
				return nil, err
			}
			it.Stack.Push(NewInt(r))

		case OpAddFloat, OpSubFloat, OpMulFloat, OpDivFloat, OpModFloat:
			b := it.Stack.Pop(types.MakeFloat())
			a := it.Stack.Pop(types.MakeFloat())
			bf, _ := b.GetFloat()
			af, _ := a.GetFloat()
			r := floatArith(instr.Op, af, bf)
			it.Stack.Push(NewFloat(r))

		case OpAddString:
			b := it.Stack.Pop(types.MakeString())
			a := it.Stack.Pop(types.MakeString())
			bs, _ := b.GetString()
			as, _ := a.GetString()
			b.Release()
			a.Release()
			it.Stack.Push(NewString(as + bs))

		case OpAddVector:
			b := it.Stack.Pop(instr.Type)
			a := it.Stack.Pop(instr.Type)
			bv, _ := b.GetVector()
			av, _ := a.GetVector()
			items := make([]Value, 0, av.Len()+bv.Len())
			items = append(items, av.Items()...)
			items = append(items, bv.Items()...)
			for _, item := range items {
				item.Retain()
			}
			r := NewVector(instr.Type.Elem(), items)
			a.Release()
			b.Release()
			it.Stack.Push(r)

		case OpCompareEq, OpCompareNeq, OpCompareLt, OpCompareLe, OpCompareGt, OpCompareGe:
			b := it.Stack.Pop(instr.Type)
			a := it.Stack.Pop(instr.Type)
			res, err := compareOp(instr.Op, a, b)
			a.Release()
			b.Release()
			if err != nil {
				return nil, err
			}
			it.Stack.Push(NewBool(res))

		case OpJump:
			next = instr.Target
		case OpJumpIfFalse:
			v := it.Stack.Pop(types.MakeBool())
			b, _ := v.GetBool()
			if !b {
				next = instr.Target
			}
		case OpJumpIfTrue:
			v := it.Stack.Pop(types.MakeBool())
			b, _ := v.GetBool()
			if b {
				next = instr.Target
			}

		case OpMemberAccess:
			s := it.Stack.Pop(instr.Type)
			si, _ := s.GetStruct()
			member := si.Members()[instr.N].Retain()
			s.Release()
			it.Stack.Push(member)

		case OpSubscriptIndex:
			idxV := it.Stack.Pop(types.MakeInt())
			idx, _ := idxV.GetInt()
			container := it.Stack.Pop(instr.Type)
			result, err := subscriptIndex(container, idx)
			container.Release()
			if err != nil {
				return nil, err
			}
			it.Stack.Push(result)

		case OpSubscriptKey:
			keyV := it.Stack.Pop(types.MakeString())
			key, _ := keyV.GetString()
			keyV.Release()
			container := it.Stack.Pop(instr.Type)
			d, _ := container.GetDict()
			val, ok := d.Get(key)
			if !ok {
				container.Release()
				return nil, newError(KeyNotFound, "key %q not found in dict", key)
			}
			val = val.Retain()
			container.Release()
			it.Stack.Push(val)

		case OpCall:
			funcType := instr.Type
			params := funcType.Params()
			args := make([]Value, len(params))
			for i := len(params) - 1; i >= 0; i-- {
				args[i] = it.Stack.Pop(params[i])
			}
			fv := it.Stack.Pop(funcKindType)
			result, err := it.callValue(fv, args)
			fv.Release()
			if err != nil {
				return nil, err
			}
			it.Stack.Push(result)

		case OpReturn:
			v := it.Stack.Pop(instr.Type)
			return &v, nil

		case OpConstructStruct:
			members := instr.Type.Members()
			vals := make([]Value, len(members))
			for i := len(members) - 1; i >= 0; i-- {
				vals[i] = it.Stack.Pop(members[i].Type)
			}
			it.Stack.Push(NewStruct(instr.Type, vals))

		case OpConstructVector:
			items := make([]Value, instr.N)
			for i := instr.N - 1; i >= 0; i-- {
				items[i] = it.Stack.Pop(instr.Type)
			}
			it.Stack.Push(NewVector(instr.Type, items))

		case OpConstructDict:
			pairs := make([]struct {
				key string
				val Value
			}, instr.N)
			for i := instr.N - 1; i >= 0; i-- {
				val := it.Stack.Pop(instr.Type)
				keyV := it.Stack.Pop(types.MakeString())
				key, _ := keyV.GetString()
				keyV.Release()
				pairs[i] = struct {
					key string
					val Value
				}{key, val}
			}
			keys := make([]string, 0, instr.N)
			entries := make(map[string]Value, instr.N)
			seen := map[string]bool{}
			for _, p := range pairs {
				if !seen[p.key] {
					keys = append(keys, p.key)
					seen[p.key] = true
				} else {
					entries[p.key].Release()
				}
				entries[p.key] = p.val
			}
			it.Stack.Push(NewDict(instr.Type, keys, entries))

		case OpConstructFromTypeid:
			args := make([]Value, instr.N)
			for i := instr.N - 1; i >= 0; i-- {
				t := instr.Type
				switch instr.Type.Kind() {
				case types.Struct:
					if i < len(instr.Type.Members()) {
						t = instr.Type.Members()[i].Type
					}
				case types.Vector:
					t = instr.Type.Elem()
				case types.Dict:
					t = instr.Type.Elem()
					if i%2 == 0 {
						t = types.MakeString()
					}
				default:
					if i == 0 && instr.Type2 != nil {
						t = instr.Type2
					}
				}
				args[i] = it.Stack.Pop(t)
			}
			result, err := constructFromTypeid(instr.Type, args)
			if err != nil {
				return nil, err
			}
			it.Stack.Push(result)

		case OpPop:
			it.Stack.Discard(instr.Type)

		default:
			return nil, newError(InterpreterPoisoned, "unknown opcode %v", instr.Op)
		}
		pc = next
	}
	return nil, nil
}

func (it *Interpreter) symbolType(addr Address, localTypes []*types.Type) *types.Type {
	if addr.IsGlobal() {
		return it.Program.Globals[addr.Slot].Type
	}
	return localTypes[addr.Slot]
}

func (it *Interpreter) loadSymbol(addr Address, localTypes []*types.Type) Value {
	t := it.symbolType(addr, localTypes)
	if addr.IsGlobal() {
		return it.Stack.Peek(addr.Slot, t)
	}
	return it.Stack.Peek(it.frameBase+addr.Slot, t)
}

func (it *Interpreter) storeSymbol(addr Address, v Value, localTypes []*types.Type) {
	t := it.symbolType(addr, localTypes)
	if addr.IsGlobal() {
		it.Stack.Set(addr.Slot, v, t)
		return
	}
	it.Stack.Set(it.frameBase+addr.Slot, v, t)
}

// callValue dispatches a function value to either the scripted
// function table or the host table, by id range (spec.md §3: host ids
// live at HostFunctionBase and above, disjoint from scripted ids).
func (it *Interpreter) callValue(fv Value, args []Value) (Value, error) {
	fr, err := fv.GetFunction()
	if err != nil {
		return Value{}, err
	}
	if fr.ID() >= HostFunctionBase {
		entry, ok := it.Host[fr.ID()]
		if !ok {
			return Value{}, newError(UndefinedSymbol, "no host function registered for id %d", fr.ID())
		}
		if len(args) != len(entry.Type.Params()) {
			return Value{}, newError(ArityMismatch, "%s expects %d arguments, got %d", entry.Name, len(entry.Type.Params()), len(args))
		}
		// Host functions borrow their args: anything a host function
		// wants to keep past this call, it retains itself (e.g. a
		// value folded into a freshly built struct/vector/dict).
		result, err := entry.Fn(it, args)
		for _, a := range args {
			a.Release()
		}
		return result, err
	}
	if fr.ID() < 0 || fr.ID() >= len(it.Program.Functions) {
		return Value{}, newError(UndefinedSymbol, "no scripted function with id %d", fr.ID())
	}
	fn := &it.Program.Functions[fr.ID()]
	if fn.HostID != 0 {
		entry, ok := it.Host[fn.HostID]
		if !ok {
			return Value{}, newError(UndefinedSymbol, "function %q aliases unknown host id %d", fn.Name, fn.HostID)
		}
		result, err := entry.Fn(it, args)
		for _, a := range args {
			a.Release()
		}
		return result, err
	}
	return it.callScripted(fn, args)
}

// CallFunction is the public entry point for calling a function value,
// scripted or host, with already-evaluated arguments; host functions
// can use it to call back into a function value they were handed.
func (it *Interpreter) CallFunction(fv Value, args []Value) (Value, error) {
	return it.callValue(fv, args)
}

// callScripted implements the frame protocol of spec.md §4.5: push
// arguments, reserve locals, run the body, then unwind the frame and
// return the result.
func (it *Interpreter) callScripted(fn *FunctionDef, args []Value) (Value, error) {
	frameBase := it.Stack.Size()
	for _, a := range args {
		it.Stack.Push(a)
	}
	for i := len(fn.Params); i < len(fn.Locals); i++ {
		it.Stack.Push(zeroValue(fn.Locals[i].Type))
	}

	savedBase := it.frameBase
	it.frameBase = frameBase
	localTypes := localTypesOf(fn.Locals)
	result, err := it.execInstrs(fn.Body, localTypes)
	it.frameBase = savedBase

	if err != nil {
		it.Stack.Truncate(frameBase, localTypes)
		return Value{}, err
	}
	it.Stack.Truncate(frameBase, localTypes)
	if result == nil {
		return Void(), nil
	}
	return *result, nil
}

func intArith(op Opcode, a, b int32) (int32, error) {
	switch op {
	case OpAddInt:
		return a + b, nil
	case OpSubInt:
		return a - b, nil
	case OpMulInt:
		return a * b, nil
	case OpDivInt:
		if b == 0 {
			return 0, newError(DivideByZero, "integer division by zero")
		}
		return a / b, nil
	case OpModInt:
		if b == 0 {
			return 0, newError(DivideByZero, "integer modulo by zero")
		}
		return a % b, nil
	default:
		return 0, newError(InterpreterPoisoned, "not an int arithmetic opcode: %v", op)
	}
}

func floatArith(op Opcode, a, b float32) float32 {
	switch op {
	case OpAddFloat:
		return a + b
	case OpSubFloat:
		return a - b
	case OpMulFloat:
		return a * b
	case OpDivFloat:
		return a / b
	case OpModFloat:
		r := a - b*float32(int64(a/b))
		return r
	default:
		panic(fmt.Sprintf("floyd: not a float arithmetic opcode: %v", op))
	}
}

func compareOp(op Opcode, a, b Value) (bool, error) {
	if op == OpCompareEq {
		return a.Equal(b), nil
	}
	if op == OpCompareNeq {
		return !a.Equal(b), nil
	}
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	switch op {
	case OpCompareLt:
		return c < 0, nil
	case OpCompareLe:
		return c <= 0, nil
	case OpCompareGt:
		return c > 0, nil
	case OpCompareGe:
		return c >= 0, nil
	default:
		return false, newError(InterpreterPoisoned, "not a comparison opcode: %v", op)
	}
}

func subscriptIndex(container Value, idx int32) (Value, error) {
	switch container.Tag() {
	case types.Vector:
		vec, _ := container.GetVector()
		if idx < 0 || int(idx) >= vec.Len() {
			return Value{}, newError(IndexOutOfBounds, "vector index %d out of bounds (len %d)", idx, vec.Len())
		}
		return vec.Items()[idx].Retain(), nil
	case types.String:
		s, _ := container.GetString()
		runes := []rune(s)
		if idx < 0 || int(idx) >= len(runes) {
			return Value{}, newError(IndexOutOfBounds, "string index %d out of bounds (len %d)", idx, len(runes))
		}
		return NewString(string(runes[idx])), nil
	default:
		return Value{}, newError(TypeMismatch, "cannot subscript a value of kind %s by index", container.Tag())
	}
}
