package ot

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Ordering is the result of comparing two values.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "equal"
	}
}

// Coarse value kinds. Mixed-kind comparisons order by these names, compared
// as strings, so no separate type-ranking table exists to drift out of sync.
const (
	kindNumber = "number"
	kindString = "string"
	kindArray  = "array"
	kindObject = "object"
)

// The collator is stateful, so a lock serializes string comparisons.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und)
)

// Compare imposes a total, deterministic order over numbers, strings, and
// arrays of such, recursively. Concrete operations use it to break symmetric
// conflicts identically no matter which peer performs the resolution.
//
// Values of different coarse kinds order by their kind names; two numbers
// order numerically; two strings order by locale-aware collation; two arrays
// order by length first, then element-by-element. Anything else fails with
// NotComparableError.
func Compare(a, b any) (Ordering, error) {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return compareStrings(ka, kb), nil
	}

	switch ka {
	case kindNumber:
		na, nb := toNumber(a), toNumber(b)
		switch {
		case na < nb:
			return Less, nil
		case na > nb:
			return Greater, nil
		default:
			return Equal, nil
		}

	case kindString:
		return compareStrings(a.(string), b.(string)), nil

	case kindArray:
		aa, ba := a.([]any), b.([]any)
		switch {
		case len(aa) < len(ba):
			return Less, nil
		case len(aa) > len(ba):
			return Greater, nil
		}
		for i := range aa {
			ord, err := Compare(aa[i], ba[i])
			if err != nil {
				return Equal, err
			}
			if ord != Equal {
				return ord, nil
			}
		}
		return Equal, nil

	default:
		return Equal, &NotComparableError{Kind: ka}
	}
}

func compareStrings(a, b string) Ordering {
	collatorMu.Lock()
	c := collator.CompareString(a, b)
	collatorMu.Unlock()
	switch {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	default:
		return Equal
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return kindNumber
	case string:
		return kindString
	case []any:
		return kindArray
	default:
		return kindObject
	}
}

func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	}
	return 0
}
