package codec

import "bytes"

// facade.go is the package's public entry point (SPEC_FULL.md §6): a small,
// stateless set of functions built on top of the recursive dispatcher in
// dispatch.go. Everything else in the package exists to make these four
// functions correct; a host that only needs the default registry never has
// to touch a Registry, a Descriptor, or a Writer/Reader directly.

// DefaultRegistry is the package-level registry RegisterStruct/RegisterEnum
// operate on. A host that wants isolated schemas (tests, multiple unrelated
// protocols in one process) can call NewRegistry and its methods directly
// instead.
var DefaultRegistry = NewRegistry()

// RegisterStruct declares a named product type against DefaultRegistry.
func RegisterStruct(name string, fields []Field, prefix *PrefixDef) *TypeHandle {
	return DefaultRegistry.RegisterStruct(name, fields, prefix)
}

// RegisterEnum declares a named sum type against DefaultRegistry.
func RegisterEnum(name string, variants []Variant) *TypeHandle {
	return DefaultRegistry.RegisterEnum(name, variants)
}

// Encode serializes v against descriptor t under opts, using reg to resolve
// any UserRef it contains. reg may be nil, in which case DefaultRegistry is
// used; a nil reg only matters if t (or something it contains) is a UserRef,
// or a Tup, whose arity limit is read from the registry.
func Encode(reg *Registry, v any, t *Descriptor, opts Options) ([]byte, error) {
	if reg == nil {
		reg = DefaultRegistry
	}
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bytesBufPool.Put(buf)
	buf.Grow(estimateSize(t))
	w, err := NewWriter(buf)
	if err != nil {
		return nil, err
	}
	if err := encodeValue(w, reg, v, t, opts); err != nil {
		return nil, err
	}
	if _, err := w.Result(); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// EncodeStrict is Encode without an error return, for callers that have
// already validated the value against the schema and want to treat any
// remaining failure as a programmer error.
func EncodeStrict(reg *Registry, v any, t *Descriptor, opts Options) []byte {
	b, err := Encode(reg, v, t, opts)
	if err != nil {
		panic(err)
	}
	return b
}

// Decode deserializes a value of descriptor t under opts from the front of
// data, and returns whatever bytes remain unconsumed. Multiple values can be
// decoded back to back from one buffer by feeding each Decode call the
// previous call's remainder.
func Decode(reg *Registry, data []byte, t *Descriptor, opts Options) (any, []byte, error) {
	if reg == nil {
		reg = DefaultRegistry
	}
	r, err := NewReader(NewBytesReader(data))
	if err != nil {
		return nil, data, err
	}
	v, err := decodeValue(r, reg, t, opts)
	if err != nil {
		return nil, nil, err
	}
	return v, data[r.Count():], nil
}

// DecodeStrict is Decode without an error return.
func DecodeStrict(reg *Registry, data []byte, t *Descriptor, opts Options) (any, []byte) {
	v, rest, err := Decode(reg, data, t, opts)
	if err != nil {
		panic(err)
	}
	return v, rest
}

// estimateSize is the capacity Encode asks the pooled bytes.Buffer to Grow to:
// the exact size for fixed-width primitives, and a 32-byte guess for anything
// else (composites, strings, user types), which the buffer grows past as needed.
func estimateSize(t *Descriptor) int {
	switch t.Kind() {
	case KindU8, KindI8, KindBool:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindF32:
		return 4
	case KindU64, KindI64, KindF64:
		return 8
	case KindU128, KindI128:
		return 16
	default:
		return 32
	}
}
