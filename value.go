package floyd

import (
	"sync/atomic"

	"github.com/mok9/floyd/types"
)

// refcount is a manual, atomic reference counter attached to every
// extended payload. FloydSpeak values are immutable and built
// bottom-up, so cycles are structurally impossible (spec.md §9) and
// plain reference counting, without a cycle collector, is sufficient.
// Go's own garbage collector would reclaim the backing memory anyway;
// this counter exists so the language's documented identity and
// lifetime rules (spec.md §3, §8 property 3) are observable and
// testable independent of when the Go GC actually runs.
type refcount struct{ n int32 }

func newRefcount() *refcount { return &refcount{n: 1} }

func (r *refcount) retain() { atomic.AddInt32(&r.n, 1) }

// release decrements the count and returns the value after
// decrementing.
func (r *refcount) release() int32 { return atomic.AddInt32(&r.n, -1) }

func (r *refcount) count() int32 { return atomic.LoadInt32(&r.n) }

// extPayload is implemented by every separately-allocated payload
// kind: string, json, typeid-value, struct instance, vector, dict,
// function reference.
type extPayload interface {
	refc() *refcount
	payloadType() *types.Type
}

type stringPayload struct {
	rc *refcount
	s  string
}

func (p *stringPayload) refc() *refcount          { return p.rc }
func (p *stringPayload) payloadType() *types.Type { return types.MakeString() }

type jsonPayload struct {
	rc   *refcount
	node JSONNode
}

func (p *jsonPayload) refc() *refcount          { return p.rc }
func (p *jsonPayload) payloadType() *types.Type { return types.MakeJson() }

type typeidPayload struct {
	rc *refcount
	t  *types.Type
}

func (p *typeidPayload) refc() *refcount          { return p.rc }
func (p *typeidPayload) payloadType() *types.Type { return types.MakeTypeid() }

// StructInstance is a struct value's payload: an owning type
// descriptor plus the ordered member-value sequence declared by it.
type StructInstance struct {
	rc      *refcount
	typ     *types.Type
	members []Value
}

func (p *StructInstance) refc() *refcount          { return p.rc }
func (p *StructInstance) payloadType() *types.Type { return p.typ }
func (p *StructInstance) Type() *types.Type        { return p.typ }
func (p *StructInstance) Members() []Value         { return p.members }

// VectorInstance is a vector value's payload.
type VectorInstance struct {
	rc    *refcount
	elem  *types.Type
	items []Value
}

func (p *VectorInstance) refc() *refcount   { return p.rc }
func (p *VectorInstance) payloadType() *types.Type {
	return types.MakeVector(p.elem)
}
func (p *VectorInstance) Elem() *types.Type { return p.elem }
func (p *VectorInstance) Items() []Value    { return p.items }
func (p *VectorInstance) Len() int          { return len(p.items) }

// DictInstance is a dict value's payload: a value type plus a mapping
// from string keys to values. Key order is not semantically
// meaningful (spec.md §4.1) but is kept stable (insertion order) for
// deterministic to_string/to_pretty_string output.
type DictInstance struct {
	rc      *refcount
	valType *types.Type
	keys    []string
	entries map[string]Value
}

func (p *DictInstance) refc() *refcount { return p.rc }
func (p *DictInstance) payloadType() *types.Type {
	return types.MakeDict(p.valType)
}
func (p *DictInstance) ValueType() *types.Type { return p.valType }
func (p *DictInstance) Keys() []string         { return p.keys }
func (p *DictInstance) Get(key string) (Value, bool) {
	v, ok := p.entries[key]
	return v, ok
}
func (p *DictInstance) Len() int { return len(p.entries) }

// FuncRef is a function value's payload: a function type plus an
// integer function id. Scripted ids are assigned sequentially from 0
// by the function table; host ids start at 1000 (spec.md §3).
type FuncRef struct {
	rc  *refcount
	typ *types.Type
	id  int
}

func (p *FuncRef) refc() *refcount          { return p.rc }
func (p *FuncRef) payloadType() *types.Type { return p.typ }
func (p *FuncRef) ID() int                  { return p.id }

// HostFunctionBase is the first id in the host function id space. Ids
// below this value identify scripted functions in the program's
// function table, by index.
const HostFunctionBase = 1000

// Value is a tagged (base-tag, payload) pair (spec.md §3). Primitive
// payloads are stored inline; extended payloads are shared by
// reference count through ext. Values are immutable after
// construction.
type Value struct {
	tag types.Kind
	b   bool
	i   int32
	f   float32
	ext extPayload
}

func Undefined() Value { return Value{tag: types.Undefined} }
func Dyn() Value       { return Value{tag: types.Dynamic} }
func Void() Value      { return Value{tag: types.Void} }

func NewBool(v bool) Value  { return Value{tag: types.Bool, b: v} }
func NewInt(v int32) Value  { return Value{tag: types.Int, i: v} }
func NewFloat(v float32) Value { return Value{tag: types.Float, f: v} }

func NewString(s string) Value {
	return Value{tag: types.String, ext: &stringPayload{rc: newRefcount(), s: s}}
}

func NewJSON(n JSONNode) Value {
	return Value{tag: types.Json, ext: &jsonPayload{rc: newRefcount(), node: n}}
}

func NewTypeidValue(t *types.Type) Value {
	return Value{tag: types.Typeid, ext: &typeidPayload{rc: newRefcount(), t: t}}
}

// NewStruct constructs a struct value. It panics if len(members) does
// not match the declared member count — callers (the interpreter's
// construct-struct instruction and construct_value_from_typeid) must
// validate arity and member types before calling this factory; see
// spec.md §3 invariant "struct member count and member types must
// equal the type descriptor's declared members."
func NewStruct(typ *types.Type, members []Value) Value {
	if len(members) != len(typ.Members()) {
		panic("floyd: struct member count mismatch")
	}
	cp := make([]Value, len(members))
	copy(cp, members)
	return Value{tag: types.Struct, ext: &StructInstance{rc: newRefcount(), typ: typ, members: cp}}
}

func NewVector(elem *types.Type, items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{tag: types.Vector, ext: &VectorInstance{rc: newRefcount(), elem: elem, items: cp}}
}

// NewDict constructs a dict value from an ordered key list and a map.
// Callers that build dicts from (key, value) pairs (construct-dict,
// construct_value_from_typeid) should pass keys in the order
// encountered so later duplicates are easy to keep-last before
// calling this factory.
func NewDict(valType *types.Type, keys []string, entries map[string]Value) Value {
	ks := make([]string, len(keys))
	copy(ks, keys)
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Value{tag: types.Dict, ext: &DictInstance{rc: newRefcount(), valType: valType, keys: ks, entries: m}}
}

func NewFunction(typ *types.Type, id int) Value {
	return Value{tag: types.Function, ext: &FuncRef{rc: newRefcount(), typ: typ, id: id}}
}

func (v Value) Tag() types.Kind { return v.tag }

// Type recovers the value's full type descriptor. For compound kinds
// this reads the descriptor carried by the payload; for primitives it
// is the fixed descriptor for that kind.
func (v Value) Type() *types.Type {
	switch v.tag {
	case types.Undefined:
		return types.MakeUndefined()
	case types.Dynamic:
		return types.MakeDynamic()
	case types.Void:
		return types.MakeVoid()
	case types.Bool:
		return types.MakeBool()
	case types.Int:
		return types.MakeInt()
	case types.Float:
		return types.MakeFloat()
	default:
		return v.ext.payloadType()
	}
}

func (v Value) IsExt() bool { return v.tag.IsExtended() }

// Retain increments the shared payload's reference count and returns
// v, mirroring the copy constructor of spec.md §4.2. Primitive values
// are unaffected.
func (v Value) Retain() Value {
	if v.ext != nil {
		v.ext.refc().retain()
	}
	return v
}

// Release decrements the shared payload's reference count. Once a
// Value has been released the caller must not use it again; nothing
// further is required on this side since the Go garbage collector
// reclaims payload memory once nothing still references it.
func (v Value) Release() {
	if v.ext != nil {
		v.ext.refc().release()
	}
}

// Refcount exposes the live reference count of an extended value's
// payload, for tests and diagnostics (spec.md §8 property 3).
func (v Value) Refcount() int32 {
	if v.ext == nil {
		return 0
	}
	return v.ext.refc().count()
}

func typeErrorf(kind types.Kind, wanted string) error {
	return newError(TypeMismatch, "expected %s, got %s", wanted, kind)
}

func (v Value) GetBool() (bool, error) {
	if v.tag != types.Bool {
		return false, typeErrorf(v.tag, "bool")
	}
	return v.b, nil
}

func (v Value) GetInt() (int32, error) {
	if v.tag != types.Int {
		return 0, typeErrorf(v.tag, "int")
	}
	return v.i, nil
}

func (v Value) GetFloat() (float32, error) {
	if v.tag != types.Float {
		return 0, typeErrorf(v.tag, "float")
	}
	return v.f, nil
}

func (v Value) GetString() (string, error) {
	if v.tag != types.String {
		return "", typeErrorf(v.tag, "string")
	}
	return v.ext.(*stringPayload).s, nil
}

func (v Value) GetJSON() (JSONNode, error) {
	if v.tag != types.Json {
		return JSONNode{}, typeErrorf(v.tag, "json")
	}
	return v.ext.(*jsonPayload).node, nil
}

func (v Value) GetTypeidValue() (*types.Type, error) {
	if v.tag != types.Typeid {
		return nil, typeErrorf(v.tag, "typeid")
	}
	return v.ext.(*typeidPayload).t, nil
}

func (v Value) GetStruct() (*StructInstance, error) {
	if v.tag != types.Struct {
		return nil, typeErrorf(v.tag, "struct")
	}
	return v.ext.(*StructInstance), nil
}

func (v Value) GetVector() (*VectorInstance, error) {
	if v.tag != types.Vector {
		return nil, typeErrorf(v.tag, "vector")
	}
	return v.ext.(*VectorInstance), nil
}

func (v Value) GetDict() (*DictInstance, error) {
	if v.tag != types.Dict {
		return nil, typeErrorf(v.tag, "dict")
	}
	return v.ext.(*DictInstance), nil
}

func (v Value) GetFunction() (*FuncRef, error) {
	if v.tag != types.Function {
		return nil, typeErrorf(v.tag, "function")
	}
	return v.ext.(*FuncRef), nil
}
