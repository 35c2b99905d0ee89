package floyd

import (
	"sort"
	"strings"

	"github.com/mok9/floyd/types"
)

// Compare implements the total order spec.md §4.2 defines for values
// of equal tag: -1, 0, +1. It is a type error to compare values of
// differing tags, or kinds that have no order here (json, typeid,
// function, struct, and the undefined/dynamic/void kinds).
func Compare(a, b Value) (int, error) {
	if a.tag != b.tag {
		return 0, newError(TypeMismatch, "cannot compare %s with %s", a.tag, b.tag)
	}
	switch a.tag {
	case types.Bool:
		return compareBool(a.b, b.b), nil
	case types.Int:
		return compareInt(a.i, b.i), nil
	case types.Float:
		return compareFloat(a.f, b.f), nil
	case types.String:
		as, _ := a.GetString()
		bs, _ := b.GetString()
		return compareInt(int32(strings.Compare(as, bs)), 0), nil
	case types.Vector:
		return compareVector(a, b)
	case types.Dict:
		return compareDict(a, b)
	default:
		return 0, newError(TypeMismatch, "values of kind %s have no ordering", a.tag)
	}
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if a {
		return 1
	}
	return -1
}

func compareInt(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareVector orders by length first, then element-wise, per
// spec.md §4.2.
func compareVector(a, b Value) (int, error) {
	av, _ := a.GetVector()
	bv, _ := b.GetVector()
	if c := compareInt(int32(len(av.items)), int32(len(bv.items))); c != 0 {
		return c, nil
	}
	for i := range av.items {
		c, err := Compare(av.items[i], bv.items[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return 0, nil
}

// compareDict orders by length first, then key-wise over sorted keys.
func compareDict(a, b Value) (int, error) {
	ad, _ := a.GetDict()
	bd, _ := b.GetDict()
	if c := compareInt(int32(len(ad.entries)), int32(len(bd.entries))); c != 0 {
		return c, nil
	}
	akeys := append([]string(nil), ad.keys...)
	sort.Strings(akeys)
	for _, k := range akeys {
		av := ad.entries[k]
		bv, ok := bd.entries[k]
		if !ok {
			return 0, newError(TypeMismatch, "dicts with different key sets have no ordering")
		}
		c, err := Compare(av, bv)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return 0, nil
}

