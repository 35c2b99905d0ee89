package floyd

import (
	"math"

	"github.com/mok9/floyd/types"
)

// stackSlot is one untagged stack word (spec.md §3: "Stack slots are
// untagged — raw 32/64-bit words or owning pointers"). The caller
// always knows the slot's type from instruction/symbol metadata, so
// no tag is stored here; bits holds a bool/int32/float32 bit pattern
// and ext holds an owning reference when the slot's type is
// extended.
type stackSlot struct {
	bits uint64
	ext  extPayload
}

// Stack is the typed evaluation stack spec.md §3 and §4.5 describe.
// Slots own whatever reference count unit was transferred into them
// by Push or Set; Pop hands that unit to the caller, and Discard/
// Truncate release it directly when no caller takes ownership.
type Stack struct {
	slots []stackSlot
}

func NewStack() *Stack {
	s := &Stack{}
	s.slots = make([]stackSlot, 0, 1024)
	return s
}

func (s *Stack) Size() int { return len(s.slots) }

func valueToSlot(v Value) stackSlot {
	switch v.tag {
	case types.Bool:
		var bits uint64
		if v.b {
			bits = 1
		}
		return stackSlot{bits: bits}
	case types.Int:
		return stackSlot{bits: uint64(uint32(v.i))}
	case types.Float:
		return stackSlot{bits: uint64(math.Float32bits(v.f))}
	case types.Undefined, types.Dynamic, types.Void:
		return stackSlot{}
	default:
		return stackSlot{ext: v.ext}
	}
}

func slotToValue(slot stackSlot, t *types.Type) Value {
	switch t.Kind() {
	case types.Undefined:
		return Undefined()
	case types.Dynamic:
		return Dyn()
	case types.Void:
		return Void()
	case types.Bool:
		return NewBool(slot.bits != 0)
	case types.Int:
		return NewInt(int32(uint32(slot.bits)))
	case types.Float:
		return NewFloat(math.Float32frombits(uint32(slot.bits)))
	default:
		return Value{tag: t.Kind(), ext: slot.ext}
	}
}

// Push places value on top of the stack. This transfers ownership of
// v's reference count unit to the slot; it does not retain. A caller
// pushing a value it wants to keep live elsewhere must Retain it
// first.
func (s *Stack) Push(v Value) {
	s.slots = append(s.slots, valueToSlot(v))
}

// Pop removes the top slot, materializing it as a Value of type t.
// The caller owns the returned value's reference count (it has not
// been released); call Release on it once done, or hand it on to
// another Push or Set (which take over that unit without retaining).
func (s *Stack) Pop(t *types.Type) Value {
	n := len(s.slots) - 1
	slot := s.slots[n]
	s.slots = s.slots[:n]
	return slotToValue(slot, t)
}

// Discard pops the top slot as a Value of type t and releases it,
// implementing OpPop.
func (s *Stack) Discard(t *types.Type) {
	v := s.Pop(t)
	v.Release()
}

// Peek reads slot at absolute position pos without removing it.
func (s *Stack) Peek(pos int, t *types.Type) Value {
	return slotToValue(s.slots[pos], t)
}

// Set overwrites slot at absolute position pos, releasing whatever
// was there before. Like Push, this transfers ownership of v's
// reference count unit into the slot without retaining.
func (s *Stack) Set(pos int, v Value, t *types.Type) {
	old := slotToValue(s.slots[pos], t)
	old.Release()
	s.slots[pos] = valueToSlot(v)
}

// Truncate pops (len(s.slots)-n) slots from the top, releasing each
// one as typed by slotTypes[i] (indexed from n), used when unwinding
// a frame on return or on error.
func (s *Stack) Truncate(n int, slotTypes []*types.Type) {
	for i := len(s.slots) - 1; i >= n; i-- {
		v := slotToValue(s.slots[i], slotTypes[i-n])
		v.Release()
	}
	s.slots = s.slots[:n]
}

