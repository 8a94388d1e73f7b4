package repository

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strings"
)

// typeRank follows MongoDB's cross-type sort order so the memory store
// orders mixed-type fields the way the database does.
func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int, int32, int64, float32, float64, json.Number:
		return 1
	case string:
		return 2
	case map[string]any:
		return 3
	case []any:
		return 4
	case bool:
		return 5
	default:
		return 6
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

// compareNumbers is exact when both sides are integers.
func compareNumbers(a, b any) int {
	if ia, ok := toInt(a); ok {
		if ib, ok := toInt(b); ok {
			return cmp.Compare(ia, ib)
		}
	}
	return cmp.Compare(toFloat(a), toFloat(b))
}

func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch ra {
	case 0:
		return 0
	case 1:
		return compareNumbers(a, b)
	case 2:
		return strings.Compare(a.(string), b.(string))
	case 5:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func matches(v any, op Operator, want any) bool {
	c := compareValues(v, want)
	sameType := typeRank(v) == typeRank(want)
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return sameType && c < 0
	case OpLte:
		return sameType && c <= 0
	case OpGt:
		return sameType && c > 0
	case OpGte:
		return sameType && c >= 0
	}
	return false
}
