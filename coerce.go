package codec

import "fmt"

// coerce.go bridges the host's plain Go values onto the value model described
// in SPEC_FULL.md §3. The dispatcher (dispatch.go) is intentionally
// permissive about the exact Go numeric type a host supplies (uint32 vs uint
// vs a non-negative int, say) but strict about the resulting shape — anything
// that cannot be reconciled with the descriptor is ErrTypeMismatch.

func coerceUnsigned(v any) (u uint64, negative bool, ok bool) {
	switch x := v.(type) {
	case uint8:
		return uint64(x), false, true
	case uint16:
		return uint64(x), false, true
	case uint32:
		return uint64(x), false, true
	case uint64:
		return x, false, true
	case uint:
		return uint64(x), false, true
	case int8:
		return uint64(x), x < 0, true
	case int16:
		return uint64(x), x < 0, true
	case int32:
		return uint64(x), x < 0, true
	case int64:
		return uint64(x), x < 0, true
	case int:
		return uint64(x), x < 0, true
	default:
		return 0, false, false
	}
}

func coerceSigned(v any) (i int64, ok bool) {
	switch x := v.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > 1<<63-1 {
			return 0, false
		}
		return int64(x), true
	case uint:
		if uint64(x) > 1<<63-1 {
			return 0, false
		}
		return int64(x), true
	default:
		return 0, false
	}
}

func coerceUint128(v any) (u Uint128, negative bool, ok bool) {
	if x, isU128 := v.(Uint128); isU128 {
		return x, false, true
	}
	if x, isI128 := v.(Int128); isI128 {
		return x.AsUint128(), x.Negative(), true
	}
	lo, negative, ok := coerceUnsigned(v)
	if !ok {
		return Uint128{}, false, false
	}
	return Uint128{Lo: lo}, negative, true
}

func coerceInt128(v any) (i Int128, ok bool) {
	if x, isI128 := v.(Int128); isI128 {
		return x, true
	}
	if x, isU128 := v.(Uint128); isU128 {
		if x.Hi != 0 {
			return Int128{}, false
		}
		return Int128{Lo: x.Lo}, true
	}
	lo, ok := coerceSigned(v)
	if !ok {
		return Int128{}, false
	}
	if lo < 0 {
		return Int128{Lo: uint64(lo), Hi: -1}, true
	}
	return Int128{Lo: uint64(lo)}, true
}

func coerceFloat(v any) (f float64, ok bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func coerceBool(v any) (b bool, ok bool) {
	x, ok := v.(bool)
	return x, ok
}

// coerceBytes accepts either a string or a []byte for Str, since Bincode
// strings are UTF-8-agnostic byte strings (SPEC_FULL.md §3).
func coerceBytes(v any) (b []byte, ok bool) {
	switch x := v.(type) {
	case string:
		return []byte(x), true
	case []byte:
		return x, true
	default:
		return nil, false
	}
}

// asOption normalizes a host value for an Opt(T) descriptor: an explicit
// Option is used as-is, nil means absent, anything else is implicitly present.
func asOption(v any) Option {
	if v == nil {
		return None()
	}
	if opt, ok := v.(Option); ok {
		return opt
	}
	return Some(v)
}

// asSeqItems accepts []any directly, or []byte as a convenience for Seq(U8).
func asSeqItems(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []byte:
		items := make([]any, len(x))
		for i, b := range x {
			items[i] = b
		}
		return items, true
	default:
		return nil, false
	}
}

// asMapPairs accepts map[any]any directly.
func asMapPairs(v any) (map[any]any, bool) {
	m, ok := v.(map[any]any)
	return m, ok
}

// asSetItems accepts a *SetValue, or []any/[]byte as a convenience that gets
// deduplicated on encode the same way NewSetValue would.
func asSetItems(v any) ([]any, bool) {
	if s, ok := v.(*SetValue); ok {
		return s.Items(), true
	}
	if items, ok := asSeqItems(v); ok {
		return NewSetValue(items...).Items(), true
	}
	return nil, false
}

// asTuple accepts a Tuple ([]any) directly.
func asTuple(v any) (Tuple, bool) {
	switch x := v.(type) {
	case Tuple:
		return x, true
	case []any:
		return Tuple(x), true
	default:
		return nil, false
	}
}

// asStructValue accepts *StructValue, StructValue, or a plain map[string]any
// as a convenience for hosts that do not want to import the wrapper type.
func asStructValue(v any) (*StructValue, error) {
	switch x := v.(type) {
	case *StructValue:
		return x, nil
	case StructValue:
		return &x, nil
	case map[string]any:
		return &StructValue{Fields: x}, nil
	default:
		return nil, fmt.Errorf("%w: expected a struct value, got %T", ErrSchemaMismatch, v)
	}
}

// asEnumValue accepts *EnumValue or EnumValue.
func asEnumValue(v any) (*EnumValue, error) {
	switch x := v.(type) {
	case *EnumValue:
		return x, nil
	case EnumValue:
		return &x, nil
	default:
		return nil, fmt.Errorf("%w: expected an enum value, got %T", ErrSchemaMismatch, v)
	}
}
