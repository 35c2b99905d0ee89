package types

import (
	"strings"
	"sync"
)

// buildSignature renders the bracketed grammar described in spec.md
// §4.1: <bool>, <string>, <vector>[<float>], <struct>{<int>x,<string>y},
// <float>(<string>,<float>).
func buildSignature(t *Type) string {
	switch t.kind {
	case Undefined:
		return "<undefined>"
	case Dynamic:
		return "<dynamic>"
	case Void:
		return "<void>"
	case Bool:
		return "<bool>"
	case Int:
		return "<int>"
	case Float:
		return "<float>"
	case String:
		return "<string>"
	case Json:
		return "<json>"
	case Typeid:
		return "<typeid>"
	case Struct:
		var b strings.Builder
		b.WriteString("<struct>{")
		for i, m := range t.members {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(m.Type.Signature())
			b.WriteString(m.Name)
		}
		b.WriteByte('}')
		return b.String()
	case Vector:
		return "<vector>[" + t.elem.Signature() + "]"
	case Dict:
		return "<dict>[" + t.elem.Signature() + "]"
	case Function:
		var b strings.Builder
		b.WriteString(t.ret.Signature())
		b.WriteByte('(')
		for i, p := range t.params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.Signature())
		}
		b.WriteByte(')')
		return b.String()
	default:
		panic("types: unhandled kind in buildSignature")
	}
}

var (
	internMu   sync.Mutex
	internPool = map[string]*Type{}
)

// intern deduplicates descriptors by signature so structurally equal
// types share one *Type, matching spec.md's "descriptors are
// value-equal when structurally identical" rule at the representation
// level, not just via Equal.
func intern(t *Type) *Type {
	sig := buildSignature(t)
	t.sig = sig

	internMu.Lock()
	defer internMu.Unlock()
	if existing, ok := internPool[sig]; ok {
		return existing
	}
	internPool[sig] = t
	return t
}

// FromSignature parses a canonical signature string back into a
// descriptor. It only needs to understand the subset of signatures
// this package itself produces, since the sole external producer of
// signatures is this package's own Signature method (round-tripped
// through the program bundle's type-descriptor pool, see spec.md §6).
func FromSignature(sig string) (*Type, bool) {
	t, tail, ok := parseSignature(sig)
	if !ok || tail != "" {
		return nil, false
	}
	return t, true
}

// parseSignature parses one base type descriptor from the front of s,
// then, for each parameter list '(...)' that follows, wraps what it has
// so far as a function signature <ret-sig>(<param-sig>,...) per
// spec.md §4.1, so a function returning a function parses too.
// Returning the unconsumed tail lets callers (struct members,
// vector/dict elements, function params) keep parsing after it.
func parseSignature(s string) (*Type, string, bool) {
	ret, tail, ok := parseBaseSignature(s)
	if !ok {
		return nil, s, false
	}
	for strings.HasPrefix(tail, "(") {
		rest := tail[1:]
		var params []*Type
		for {
			if strings.HasPrefix(rest, ")") {
				rest = rest[1:]
				break
			}
			pt, tail2, ok := parseSignature(rest)
			if !ok {
				return nil, s, false
			}
			params = append(params, pt)
			rest = tail2
			if strings.HasPrefix(rest, ",") {
				rest = rest[1:]
			}
		}
		ret = MakeFunction(ret, params)
		tail = rest
	}
	return ret, tail, true
}

// parseBaseSignature parses a single non-function descriptor: the
// atoms, <struct>{...}, <vector>[...], <dict>[...]. It never recurses
// on an unchanged s, so an unrecognized leading token fails cleanly
// instead of looping forever on malformed input arriving from an
// untrusted program bundle (spec.md §7).
func parseBaseSignature(s string) (*Type, string, bool) {
	switch {
	case strings.HasPrefix(s, "<undefined>"):
		return MakeUndefined(), s[len("<undefined>"):], true
	case strings.HasPrefix(s, "<dynamic>"):
		return MakeDynamic(), s[len("<dynamic>"):], true
	case strings.HasPrefix(s, "<void>"):
		return MakeVoid(), s[len("<void>"):], true
	case strings.HasPrefix(s, "<bool>"):
		return MakeBool(), s[len("<bool>"):], true
	case strings.HasPrefix(s, "<int>"):
		return MakeInt(), s[len("<int>"):], true
	case strings.HasPrefix(s, "<float>"):
		return MakeFloat(), s[len("<float>"):], true
	case strings.HasPrefix(s, "<string>"):
		return MakeString(), s[len("<string>"):], true
	case strings.HasPrefix(s, "<json>"):
		return MakeJson(), s[len("<json>"):], true
	case strings.HasPrefix(s, "<typeid>"):
		return MakeTypeid(), s[len("<typeid>"):], true
	case strings.HasPrefix(s, "<struct>{"):
		rest := s[len("<struct>{"):]
		var members []Member
		for {
			if strings.HasPrefix(rest, "}") {
				rest = rest[1:]
				break
			}
			mt, tail, ok := parseSignature(rest)
			if !ok {
				return nil, s, false
			}
			tail = strings.TrimPrefix(tail, " ")
			end := strings.IndexAny(tail, ",}")
			if end < 0 {
				return nil, s, false
			}
			members = append(members, Member{Name: tail[:end], Type: mt})
			rest = tail[end:]
			if strings.HasPrefix(rest, ",") {
				rest = rest[1:]
			}
		}
		return MakeStruct(members), rest, true
	case strings.HasPrefix(s, "<vector>["):
		elem, tail, ok := parseSignature(s[len("<vector>["):])
		if !ok || !strings.HasPrefix(tail, "]") {
			return nil, s, false
		}
		return MakeVector(elem), tail[1:], true
	case strings.HasPrefix(s, "<dict>["):
		elem, tail, ok := parseSignature(s[len("<dict>["):])
		if !ok || !strings.HasPrefix(tail, "]") {
			return nil, s, false
		}
		return MakeDict(elem), tail[1:], true
	default:
		return nil, s, false
	}
}
