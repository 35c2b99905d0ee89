package floyd

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONKind discriminates the recursive JSON sum type described in
// spec.md §3: "json node (recursive sum type: null/bool/number/
// string/array/object)".
type JSONKind int

const (
	JSONNull JSONKind = iota
	JSONBool
	JSONNumber
	JSONString
	JSONArray
	JSONObject
)

// JSONNode is an immutable JSON tree node. Exactly one payload field
// is meaningful for a given Kind, mirroring the tagged-variant
// discipline spec.md §9 prescribes for closed families.
type JSONNode struct {
	kind   JSONKind
	b      bool
	num    float64
	str    string
	arr    []JSONNode
	object []jsonMember // insertion order preserved, unlike a Go map
}

type jsonMember struct {
	key   string
	value JSONNode
}

func JSONNull_() JSONNode               { return JSONNode{kind: JSONNull} }
func NewJSONBool(v bool) JSONNode       { return JSONNode{kind: JSONBool, b: v} }
func NewJSONNumber(v float64) JSONNode  { return JSONNode{kind: JSONNumber, num: v} }
func NewJSONString(v string) JSONNode   { return JSONNode{kind: JSONString, str: v} }
func NewJSONArray(v []JSONNode) JSONNode {
	cp := make([]JSONNode, len(v))
	copy(cp, v)
	return JSONNode{kind: JSONArray, arr: cp}
}

// NewJSONObject builds an object node from an ordered key/value list.
// Duplicate keys keep the last occurrence, matching the dict
// construction rule in spec.md §4.4.
func NewJSONObject(pairs []struct {
	Key   string
	Value JSONNode
}) JSONNode {
	n := JSONNode{kind: JSONObject}
	for _, p := range pairs {
		n = n.WithMember(p.Key, p.Value)
	}
	return n
}

// WithMember returns a copy of an object node with key set to value,
// replacing any existing occurrence in place and appending otherwise.
func (n JSONNode) WithMember(key string, value JSONNode) JSONNode {
	out := JSONNode{kind: JSONObject, object: make([]jsonMember, 0, len(n.object)+1)}
	replaced := false
	for _, m := range n.object {
		if m.key == key {
			out.object = append(out.object, jsonMember{key, value})
			replaced = true
		} else {
			out.object = append(out.object, m)
		}
	}
	if !replaced {
		out.object = append(out.object, jsonMember{key, value})
	}
	return out
}

func (n JSONNode) Kind() JSONKind { return n.kind }
func (n JSONNode) IsNull() bool   { return n.kind == JSONNull }
func (n JSONNode) IsBool() bool   { return n.kind == JSONBool }
func (n JSONNode) IsNumber() bool { return n.kind == JSONNumber }
func (n JSONNode) IsString() bool { return n.kind == JSONString }
func (n JSONNode) IsArray() bool  { return n.kind == JSONArray }
func (n JSONNode) IsObject() bool { return n.kind == JSONObject }

func (n JSONNode) Bool() bool      { return n.b }
func (n JSONNode) Number() float64 { return n.num }

// Str returns the payload of a JSONString node, or "" otherwise.
func (n JSONNode) Str() string {
	if n.kind == JSONString {
		return n.str
	}
	return ""
}
func (n JSONNode) Array() []JSONNode { return n.arr }

// Lookup returns the value for key and whether it was present.
func (n JSONNode) Lookup(key string) (JSONNode, bool) {
	for _, m := range n.object {
		if m.key == key {
			return m.value, true
		}
	}
	return JSONNode{}, false
}

// Keys returns the object's member names in insertion order.
func (n JSONNode) Keys() []string {
	keys := make([]string, len(n.object))
	for i, m := range n.object {
		keys[i] = m.key
	}
	return keys
}

// Equal performs the structural comparison spec.md §4.2 requires for
// "json" values.
func (n JSONNode) Equal(other JSONNode) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case JSONNull:
		return true
	case JSONBool:
		return n.b == other.b
	case JSONNumber:
		return n.num == other.num
	case JSONString:
		return n.str == other.str
	case JSONArray:
		if len(n.arr) != len(other.arr) {
			return false
		}
		for i := range n.arr {
			if !n.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case JSONObject:
		if len(n.object) != len(other.object) {
			return false
		}
		for _, m := range n.object {
			ov, ok := other.Lookup(m.key)
			if !ok || !m.value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// GetJSONType implements the get_json_type host function's numbering:
// 1=object, 2=array, 3=string, 4=number, 5=true, 6=false, 7=null.
func GetJSONType(n JSONNode) int {
	switch n.kind {
	case JSONObject:
		return 1
	case JSONArray:
		return 2
	case JSONString:
		return 3
	case JSONNumber:
		return 4
	case JSONBool:
		if n.b {
			return 5
		}
		return 6
	case JSONNull:
		return 7
	default:
		panic("floyd: unhandled JSONKind")
	}
}

// DecodeJSON parses JSON text into a JSONNode tree, preserving object
// key order. Grounded on the standard library's token-level decoder
// (encoding/json.Decoder) rather than a third-party JSON library:
// none of the example repos ships a parser that hands back an
// order-preserving recursive tree of the shape spec.md's json value
// needs — gjson/sjson (seen across other_examples/manifests) operate
// by path query over raw text rather than building an owned node
// tree, which is the wrong shape for a value the interpreter must
// hold, compare, and round-trip through flatten/unflatten.
func DecodeJSON(text string) (JSONNode, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	n, err := decodeJSONValue(dec)
	if err != nil {
		return JSONNode{}, newError(IoError, "invalid JSON: %v", err)
	}
	return n, nil
}

func decodeJSONValue(dec *json.Decoder) (JSONNode, error) {
	tok, err := dec.Token()
	if err != nil {
		return JSONNode{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (JSONNode, error) {
	switch v := tok.(type) {
	case nil:
		return JSONNull_(), nil
	case bool:
		return NewJSONBool(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return JSONNode{}, err
		}
		return NewJSONNumber(f), nil
	case string:
		return NewJSONString(v), nil
	case json.Delim:
		switch v {
		case '[':
			var elems []JSONNode
			for dec.More() {
				elem, err := decodeJSONValue(dec)
				if err != nil {
					return JSONNode{}, err
				}
				elems = append(elems, elem)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return JSONNode{}, err
			}
			return NewJSONArray(elems), nil
		case '{':
			obj := JSONNode{kind: JSONObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return JSONNode{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return JSONNode{}, fmt.Errorf("expected object key, got %v", keyTok)
				}
				value, err := decodeJSONValue(dec)
				if err != nil {
					return JSONNode{}, err
				}
				obj = obj.WithMember(key, value)
			}
			if _, err := dec.Token(); err != nil { // closing }
				return JSONNode{}, err
			}
			return obj, nil
		}
	}
	return JSONNode{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// EncodeJSON serializes a JSONNode to compact JSON text, preserving
// each object's member insertion order rather than sorting keys, so
// that decode_json -> encode_json round-trips the source text's key
// order (spec.md §4.3).
func EncodeJSON(n JSONNode) string {
	var buf bytes.Buffer
	encodeJSONValue(&buf, n, false, 0)
	return buf.String()
}

// EncodePrettyJSON serializes with 2-space indentation, one array
// element or object member per line, backing to_pretty_string. It
// applies no line-width limit.
func EncodePrettyJSON(n JSONNode) string {
	var buf bytes.Buffer
	encodeJSONValue(&buf, n, true, 0)
	return buf.String()
}

func encodeJSONValue(buf *bytes.Buffer, n JSONNode, pretty bool, depth int) {
	switch n.kind {
	case JSONNull:
		buf.WriteString("null")
	case JSONBool:
		if n.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case JSONNumber:
		fmt.Fprintf(buf, "%v", n.num)
	case JSONString:
		b, _ := json.Marshal(n.str)
		buf.Write(b)
	case JSONArray:
		buf.WriteByte('[')
		for i, e := range n.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if pretty {
				buf.WriteByte('\n')
				writeIndent(buf, depth+1)
			}
			encodeJSONValue(buf, e, pretty, depth+1)
		}
		if pretty && len(n.arr) > 0 {
			buf.WriteByte('\n')
			writeIndent(buf, depth)
		}
		buf.WriteByte(']')
	case JSONObject:
		keys := n.Keys()
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if pretty {
				buf.WriteByte('\n')
				writeIndent(buf, depth+1)
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if pretty {
				buf.WriteByte(' ')
			}
			v, _ := n.Lookup(k)
			encodeJSONValue(buf, v, pretty, depth+1)
		}
		if pretty && len(keys) > 0 {
			buf.WriteByte('\n')
			writeIndent(buf, depth)
		}
		buf.WriteByte('}')
	}
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}
