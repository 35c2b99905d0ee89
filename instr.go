package floyd

import (
	"encoding/json"

	"github.com/mok9/floyd/types"
)

// Opcode names one instruction of the stack machine spec.md §4.4
// describes.
type Opcode int

const (
	OpLoadConst Opcode = iota
	OpLoadSymbol
	OpStoreSymbol

	OpAddInt
	OpSubInt
	OpMulInt
	OpDivInt
	OpModInt

	OpAddFloat
	OpSubFloat
	OpMulFloat
	OpDivFloat
	OpModFloat

	OpAddString  // string concatenation
	OpAddVector  // vector concatenation; Instruction.Type = vector type

	OpCompareEq
	OpCompareNeq
	OpCompareLt
	OpCompareLe
	OpCompareGt
	OpCompareGe

	OpJump
	OpJumpIfFalse // consumes top-of-stack bool; used to compile && and ||
	OpJumpIfTrue

	OpMemberAccess  // by struct-member index (Instruction.N)
	OpSubscriptIndex // vector/string, integer index from stack
	OpSubscriptKey   // dict, string key from stack

	OpCall     // Instruction.Type = callee function type; its parameter count is the argument count
	OpReturn

	OpConstructStruct // Instruction.Type = struct type; one argument per declared member
	OpConstructVector  // Instruction.Type = element type, Instruction.N = element count
	OpConstructDict    // Instruction.Type = value type, Instruction.N = pair count

	// OpConstructFromTypeid implements construct_value_from_typeid
	// (spec.md §4.4): Type is the target type, Type2 is the type of
	// the first argument on the stack (used only to disambiguate the
	// primitive conversion pairs), N is the argument count.
	OpConstructFromTypeid

	OpPop // discard top-of-stack value of Instruction.Type, releasing its RC
)

// Instruction is one bytecode operation. Not every field is
// meaningful for every Op; see the Opcode constants' comments.
type Instruction struct {
	Op     Opcode
	Addr   Address
	Const  Value
	Type   *types.Type
	Type2  *types.Type
	N      int
	Target int
}

// --- JSON wire form ---
//
// Instructions travel through the program bundle (spec.md §6) as
// plain JSON objects; *types.Type and Value have unexported internals
// so they are encoded/decoded through their own textual forms
// (signatures, flattened JSON) rather than via struct reflection.

type wireInstruction struct {
	Op     string          `json:"op"`
	Frame  int             `json:"frame,omitempty"`
	Slot   int             `json:"slot,omitempty"`
	Const  json.RawMessage `json:"const,omitempty"`
	Type   string          `json:"type,omitempty"`
	Type2  string          `json:"type2,omitempty"`
	N      int             `json:"n,omitempty"`
	Target int             `json:"target,omitempty"`
}

var opcodeNames = map[Opcode]string{
	OpLoadConst: "load_const", OpLoadSymbol: "load_symbol", OpStoreSymbol: "store_symbol",
	OpAddInt: "add_int", OpSubInt: "sub_int", OpMulInt: "mul_int", OpDivInt: "div_int", OpModInt: "mod_int",
	OpAddFloat: "add_float", OpSubFloat: "sub_float", OpMulFloat: "mul_float", OpDivFloat: "div_float", OpModFloat: "mod_float",
	OpAddString: "add_string", OpAddVector: "add_vector",
	OpCompareEq: "eq", OpCompareNeq: "neq", OpCompareLt: "lt", OpCompareLe: "le", OpCompareGt: "gt", OpCompareGe: "ge",
	OpJump: "jump", OpJumpIfFalse: "jump_if_false", OpJumpIfTrue: "jump_if_true",
	OpMemberAccess: "member", OpSubscriptIndex: "subscript_index", OpSubscriptKey: "subscript_key",
	OpCall: "call", OpReturn: "return",
	OpConstructStruct: "construct_struct", OpConstructVector: "construct_vector", OpConstructDict: "construct_dict",
	OpConstructFromTypeid: "construct_from_typeid",
	OpPop:                 "pop",
}

var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "unknown_op"
}

func instructionsFromWire(raw []wireInstruction) ([]Instruction, error) {
	out := make([]Instruction, len(raw))
	for i, w := range raw {
		op, ok := opcodeByName[w.Op]
		if !ok {
			return nil, newError(UndefinedSymbol, "unknown opcode %q", w.Op)
		}
		instr := Instruction{Op: op, Addr: Address{Frame: w.Frame, Slot: w.Slot}, N: w.N, Target: w.Target}
		if w.Type != "" {
			t, ok := types.FromSignature(w.Type)
			if !ok {
				return nil, newError(UndefinedSymbol, "instruction %d has invalid type signature %q", i, w.Type)
			}
			instr.Type = t
		}
		if w.Type2 != "" {
			t, ok := types.FromSignature(w.Type2)
			if !ok {
				return nil, newError(UndefinedSymbol, "instruction %d has invalid type2 signature %q", i, w.Type2)
			}
			instr.Type2 = t
		}
		if len(w.Const) > 0 {
			if instr.Type == nil {
				return nil, newError(UndefinedSymbol, "instruction %d has a const but no type to unflatten it against", i)
			}
			jn, err := DecodeJSON(string(w.Const))
			if err != nil {
				return nil, err
			}
			cv, err := Unflatten(jn, instr.Type)
			if err != nil {
				return nil, err
			}
			instr.Const = cv
		}
		out[i] = instr
	}
	return out, nil
}

func instructionsToWire(ins []Instruction) ([]wireInstruction, error) {
	out := make([]wireInstruction, len(ins))
	for i, instr := range ins {
		w := wireInstruction{Op: instr.Op.String(), Frame: instr.Addr.Frame, Slot: instr.Addr.Slot, N: instr.N, Target: instr.Target}
		if instr.Type != nil {
			w.Type = instr.Type.Signature()
		}
		if instr.Type2 != nil {
			w.Type2 = instr.Type2.Signature()
		}
		if instr.Op == OpLoadConst {
			if instr.Type == nil {
				// The loader unflattens the const against its type.
				w.Type = instr.Const.Type().Signature()
			}
			j, err := Flatten(instr.Const)
			if err != nil {
				return nil, err
			}
			w.Const = json.RawMessage(EncodeJSON(j))
		}
		out[i] = w
	}
	return out, nil
}
