package floyd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mok9/floyd/types"
)

// ToCompactString renders value in the compact textual form
// host__to_string uses: strings are NOT quoted (spec.md §4.6).
func ToCompactString(v Value) string {
	return toCompactString(v, false)
}

// toCompactStringQuoted mirrors the original's
// to_compact_string_quote_strings: same as ToCompactString but wraps
// string values in double quotes. Used for diagnostics, not exposed
// as a host function (spec.md names no such builtin).
func toCompactStringQuoted(v Value) string {
	return toCompactString(v, true)
}

func toCompactString(v Value, quoteStrings bool) string {
	switch v.tag {
	case types.Undefined:
		return "<undefined>"
	case types.Dynamic:
		return "<dynamic>"
	case types.Void:
		return ""
	case types.Bool:
		if v.b {
			return "true"
		}
		return "false"
	case types.Int:
		return strconv.FormatInt(int64(v.i), 10)
	case types.Float:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case types.String:
		s, _ := v.GetString()
		if quoteStrings {
			return strconv.Quote(s)
		}
		return s
	case types.Json:
		j, _ := v.GetJSON()
		return EncodeJSON(j)
	case types.Typeid:
		t, _ := v.GetTypeidValue()
		return t.Signature()
	case types.Struct:
		s, _ := v.GetStruct()
		var b strings.Builder
		b.WriteByte('{')
		for i, m := range s.typ.Members() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.Name)
			b.WriteByte('=')
			b.WriteString(toCompactString(s.members[i], quoteStrings))
		}
		b.WriteByte('}')
		return b.String()
	case types.Vector:
		vec, _ := v.GetVector()
		parts := make([]string, len(vec.items))
		for i, item := range vec.items {
			parts[i] = toCompactString(item, true)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case types.Dict:
		d, _ := v.GetDict()
		parts := make([]string, 0, len(d.keys))
		for _, k := range d.keys {
			val, _ := d.Get(k)
			parts = append(parts, fmt.Sprintf("%q: %s", k, toCompactString(val, true)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case types.Function:
		f, _ := v.GetFunction()
		return fmt.Sprintf("<function %s #%d>", f.typ.Signature(), f.id)
	default:
		return "<?>"
	}
}

// ToPrettyString renders a pretty JSON form by flattening the value to
// JSON first. Every non-empty array and object is broken across lines
// with 2-space indentation; there is no line-width limit, so short
// containers are not kept on one line.
func ToPrettyString(v Value) (string, error) {
	j, err := Flatten(v)
	if err != nil {
		return "", err
	}
	return EncodePrettyJSON(j), nil
}

// valueAndTypeToString mirrors the original's
// value_and_type_to_string debug helper: "<type>: <compact-quoted>".
func valueAndTypeToString(v Value) string {
	return fmt.Sprintf("%s: %s", v.Type().Signature(), toCompactStringQuoted(v))
}
