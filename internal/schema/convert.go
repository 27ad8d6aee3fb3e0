package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/jacoelho/docpath/internal/node"
)

// ErrDataConversionFailed reports a value that cannot take the declared type.
var ErrDataConversionFailed = errors.New("schema: data conversion failed")

// Convert coerces value to the type declared by n. A nil node, the any type
// and a nil value pass through unchanged.
func (s *Schema) Convert(value any, n *Node) (any, error) {
	if n == nil || n.Type == TypeAny || value == nil {
		return value, nil
	}

	var (
		out any
		ok  bool
	)
	switch n.Type {
	case TypeString:
		out, ok = toString(value)
	case TypeNumber:
		out, ok = toFloat(value)
	case TypeInteger:
		out, ok = toInt(value)
	case TypeBoolean:
		out, ok = toBool(value)
	case TypeObject:
		out, ok = value, node.KindOf(value) == node.KindObject
	case TypeMap:
		out, ok = toMap(value)
	case TypeArray:
		out, ok = toSequence(value)
	case TypeSet:
		out, ok = toSet(value)
	}
	if !ok {
		return nil, fmt.Errorf("%w: cannot convert %T to %s", ErrDataConversionFailed, value, n.Type)
	}
	return out, nil
}

func toString(v any) (any, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	}
	if i, ok := integer(v); ok {
		return strconv.FormatInt(i, 10), true
	}
	return nil, false
}

func toFloat(v any) (any, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	if i, ok := integer(v); ok {
		return float64(i), true
	}
	return nil, false
}

func toInt(v any) (any, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64+1 {
			return nil, false
		}
		return int64(x), true
	case string:
		i, err := strconv.ParseInt(x, 10, 64)
		return i, err == nil
	}
	i, ok := integer(v)
	return i, ok
}

func toBool(v any) (any, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(x)
		return b, err == nil
	}
	return nil, false
}

func toMap(v any) (any, bool) {
	switch node.KindOf(v) {
	case node.KindAssocMap:
		return v, true
	case node.KindObject:
		fields, _ := node.AsFields(v)
		m := node.NewMap()
		for _, k := range fields.Keys() {
			val, _ := fields.Get(k)
			m.Set(k, val)
		}
		return m, true
	}
	return nil, false
}

func toSequence(v any) (any, bool) {
	switch node.KindOf(v) {
	case node.KindSequence:
		return v, true
	case node.KindSet:
		return v.(*node.Set).Values(), true
	}
	return nil, false
}

func toSet(v any) (any, bool) {
	switch node.KindOf(v) {
	case node.KindSet:
		return v, true
	case node.KindSequence:
		return node.NewSet(v.([]any)...), true
	}
	return nil, false
}

func integer(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), x <= math.MaxInt64
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	}
	return 0, false
}
