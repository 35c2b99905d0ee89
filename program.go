package floyd

import (
	"encoding/json"

	"github.com/mok9/floyd/types"
)

// StorageClass identifies where a symbol lives, per spec.md §3.
type StorageClass int

const (
	StorageGlobal StorageClass = iota
	StorageLocal
	StorageArgument
)

// Symbol is a (name, declared-type, optional-constant-initializer,
// storage-class) record.
type Symbol struct {
	Name    string
	Type    *types.Type
	Const   *Value
	Storage StorageClass
}

// Address addresses a symbol by (frame-index, slot-index). Frame
// index 0 refers to the globals table; any other value refers to the
// current call frame, relative to its frame base (spec.md §4.5).
type Address struct {
	Frame int
	Slot  int
}

func (a Address) IsGlobal() bool { return a.Frame == 0 }

// FunctionDef is one entry in the program's function table. A
// scripted function carries Body; a stub with HostID != 0 is instead
// resolved through the interpreter's host table — see
// Program.Validate for the disjointness check spec.md §3 demands.
type FunctionDef struct {
	Name    string
	Type    *types.Type
	Params  []string
	Locals  []Symbol
	Body    []Instruction
	HostID  int // 0 unless this entry is a thin alias into the host table
}

// Program is the immutable bundle described in spec.md §4.4 and §6:
// a global symbol table, a function table, and a top-level
// instruction sequence. Function id == index into Functions.
type Program struct {
	Globals   []Symbol
	Functions []FunctionDef
	Top       []Instruction
}

// Validate checks the program-load-time invariants spec.md §3 and §7
// name: a function's declared type must be a function type, a
// non-zero HostID (an alias into the host table) must lie in the host
// id range at or above HostFunctionBase, and every global must have a
// declared type.
func (p *Program) Validate() error {
	for i, fn := range p.Functions {
		if fn.Type == nil || fn.Type.Kind() != types.Function {
			return newError(UndefinedSymbol, "function %q (id %d) has no function type", fn.Name, i)
		}
		if fn.HostID != 0 && fn.HostID < HostFunctionBase {
			return newError(UndefinedSymbol, "function %q has host id %d below the host range (%d)", fn.Name, fn.HostID, HostFunctionBase)
		}
	}
	for _, g := range p.Globals {
		if g.Type == nil {
			return newError(UndefinedSymbol, "global %q has no declared type", g.Name)
		}
	}
	return nil
}

// FindGlobal looks up a global symbol by name, returning its address.
func (p *Program) FindGlobal(name string) (Address, *Symbol, bool) {
	for i := range p.Globals {
		if p.Globals[i].Name == name {
			return Address{Frame: 0, Slot: i}, &p.Globals[i], true
		}
	}
	return Address{}, nil, false
}

// --- JSON bundle encoding (spec.md §6) ---
//
// ["program", {"globals": [...], "functions": [...], "top": [...]}]
//
// This is the wire format the out-of-scope compiler pipeline produces
// and the sole format the interpreter constructor accepts; there is
// no in-core parser or code generator (spec.md §1).

type bundleSymbol struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Const   json.RawMessage `json:"const,omitempty"`
	Storage string          `json:"storage"`
}

type bundleFunction struct {
	Name   string            `json:"name"`
	Type   string            `json:"type"`
	Params []string          `json:"params"`
	Locals []bundleSymbol    `json:"locals"`
	Body   []wireInstruction `json:"body"`
	HostID int               `json:"host_id,omitempty"`
}

type bundleBody struct {
	Globals   []bundleSymbol    `json:"globals"`
	Functions []bundleFunction  `json:"functions"`
	Top       []wireInstruction `json:"top"`
}

// LoadProgram decodes a program bundle from its JSON wire form.
// Constant initializers are decoded through Unflatten against the
// symbol's declared type, so only JSON-representable constants
// (spec.md §8 property 2) may appear in a bundle.
func LoadProgram(data []byte) (*Program, error) {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, newError(UndefinedSymbol, "malformed program bundle: %v", err)
	}
	var tag string
	if err := json.Unmarshal(pair[0], &tag); err != nil || tag != "program" {
		return nil, newError(UndefinedSymbol, "program bundle must start with the \"program\" tag")
	}
	var body bundleBody
	if err := json.Unmarshal(pair[1], &body); err != nil {
		return nil, newError(UndefinedSymbol, "malformed program bundle body: %v", err)
	}

	globals, err := decodeSymbols(body.Globals)
	if err != nil {
		return nil, err
	}

	functions := make([]FunctionDef, len(body.Functions))
	for i, f := range body.Functions {
		t, ok := types.FromSignature(f.Type)
		if !ok {
			return nil, newError(UndefinedSymbol, "function %q has invalid type signature %q", f.Name, f.Type)
		}
		locals, err := decodeSymbols(f.Locals)
		if err != nil {
			return nil, err
		}
		fnBody, err := instructionsFromWire(f.Body)
		if err != nil {
			return nil, err
		}
		functions[i] = FunctionDef{
			Name:   f.Name,
			Type:   t,
			Params: f.Params,
			Locals: locals,
			Body:   fnBody,
			HostID: f.HostID,
		}
	}

	top, err := instructionsFromWire(body.Top)
	if err != nil {
		return nil, err
	}

	p := &Program{Globals: globals, Functions: functions, Top: top}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// SaveProgram encodes a program to its JSON bundle wire form.
func SaveProgram(p *Program) ([]byte, error) {
	globals, err := encodeSymbols(p.Globals)
	if err != nil {
		return nil, err
	}
	functions := make([]bundleFunction, len(p.Functions))
	for i, f := range p.Functions {
		locals, err := encodeSymbols(f.Locals)
		if err != nil {
			return nil, err
		}
		body, err := instructionsToWire(f.Body)
		if err != nil {
			return nil, err
		}
		functions[i] = bundleFunction{Name: f.Name, Type: f.Type.Signature(), Params: f.Params, Locals: locals, Body: body, HostID: f.HostID}
	}
	top, err := instructionsToWire(p.Top)
	if err != nil {
		return nil, err
	}
	pair := [2]any{"program", bundleBody{Globals: globals, Functions: functions, Top: top}}
	return json.Marshal(pair)
}

func encodeSymbols(in []Symbol) ([]bundleSymbol, error) {
	out := make([]bundleSymbol, len(in))
	for i, s := range in {
		storage, err := storageToString(s.Storage)
		if err != nil {
			return nil, err
		}
		bs := bundleSymbol{Name: s.Name, Type: s.Type.Signature(), Storage: storage}
		if s.Const != nil {
			j, err := Flatten(*s.Const)
			if err != nil {
				return nil, err
			}
			bs.Const = json.RawMessage(EncodeJSON(j))
		}
		out[i] = bs
	}
	return out, nil
}

func storageToString(s StorageClass) (string, error) {
	switch s {
	case StorageGlobal:
		return "global", nil
	case StorageLocal:
		return "local", nil
	case StorageArgument:
		return "argument", nil
	default:
		return "", newError(UndefinedSymbol, "unknown storage class %d", int(s))
	}
}

func decodeSymbols(in []bundleSymbol) ([]Symbol, error) {
	out := make([]Symbol, len(in))
	for i, s := range in {
		t, ok := types.FromSignature(s.Type)
		if !ok {
			return nil, newError(UndefinedSymbol, "symbol %q has invalid type signature %q", s.Name, s.Type)
		}
		storage, err := parseStorage(s.Storage)
		if err != nil {
			return nil, err
		}
		sym := Symbol{Name: s.Name, Type: t, Storage: storage}
		if len(s.Const) > 0 {
			var jn JSONNode
			jn, err = decodeJSONFromRaw(s.Const)
			if err != nil {
				return nil, err
			}
			cv, err := Unflatten(jn, t)
			if err != nil {
				return nil, err
			}
			sym.Const = &cv
		}
		out[i] = sym
	}
	return out, nil
}

func decodeJSONFromRaw(raw json.RawMessage) (JSONNode, error) {
	return DecodeJSON(string(raw))
}

func parseStorage(s string) (StorageClass, error) {
	switch s {
	case "global":
		return StorageGlobal, nil
	case "local":
		return StorageLocal, nil
	case "argument":
		return StorageArgument, nil
	default:
		return 0, newError(UndefinedSymbol, "unknown storage class %q", s)
	}
}

