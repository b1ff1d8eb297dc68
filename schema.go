package codec

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// DefaultMaxTupleSize is the out-of-the-box ceiling on Tup arity (SPEC_FULL.md §6).
const DefaultMaxTupleSize = 12

// Field is an ordered (name, type) pair, the unit both struct field lists
// and enum variant field lists are built from.
type Field struct {
	Name string
	Type *Descriptor
}

// PrefixDef describes a value emitted before a struct body, encoded with its
// own descriptor; decoding a struct reads and discards it. It is supplied by
// the host through RegisterStruct. Enum variants do not use it: encodeEnum and
// decodeEnum write and read the discriminant themselves.
type PrefixDef struct {
	Value any
	Type  *Descriptor
}

// StructDef is a registered product type: an ordered field list and an
// optional prefix.
type StructDef struct {
	Name   string
	Fields []Field
	Prefix *PrefixDef
}

// Variant is one arm of a registered sum type: a name plus its fields,
// encoded as a struct body. Its discriminant is its zero-based index within
// the owning EnumDef's Variants slice.
type Variant struct {
	Name   string
	Fields []Field
}

// EnumDef is a registered sum type: an ordered, positionally-discriminated
// variant list.
type EnumDef struct {
	Name     string
	Variants []Variant
}

// variantIndex returns the zero-based declaration index of the named variant.
func (e *EnumDef) variantIndex(name string) (int, bool) {
	for i, v := range e.Variants {
		if v.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Registry holds the host's declared struct/enum types, resolved by name at
// codec time (SPEC_FULL.md §4.5). It is write-once at startup and read-only
// thereafter (SPEC_FULL.md §5): registration and lookup share the same
// xsync.Map already used by the reflection size cache in fixed.go, so a host
// that registers lazily from multiple goroutines never needs an explicit
// lock, and steady-state lookups from concurrent Encode/Decode calls never
// contend.
type Registry struct {
	structs      *xsync.MapOf[string, *StructDef]
	enums        *xsync.MapOf[string, *EnumDef]
	MaxTupleSize int
}

// NewRegistry creates an empty registry with the default tuple-size ceiling.
func NewRegistry() *Registry {
	return &Registry{
		structs:      xsync.NewMapOf[string, *StructDef](),
		enums:        xsync.NewMapOf[string, *EnumDef](),
		MaxTupleSize: DefaultMaxTupleSize,
	}
}

// TypeHandle is the opaque handle returned by RegisterStruct/RegisterEnum,
// binding a registered name to its owning Registry so it can expose its own
// Encode/Decode pair (SPEC_FULL.md §4.7/§6) without the caller re-threading
// a UserRef descriptor by hand.
type TypeHandle struct {
	registry *Registry
	name     string
	typ      *Descriptor
}

// Name returns the registered type name.
func (h *TypeHandle) Name() string { return h.name }

// Type returns the UserRef descriptor bound to this handle.
func (h *TypeHandle) Type() *Descriptor { return h.typ }

// Encode encodes v against this handle's registered type.
func (h *TypeHandle) Encode(v any, opts Options) ([]byte, error) {
	return Encode(h.registry, v, h.typ, opts)
}

// EncodeStrict encodes v against this handle's registered type, panicking on error.
func (h *TypeHandle) EncodeStrict(v any, opts Options) []byte {
	return EncodeStrict(h.registry, v, h.typ, opts)
}

// Decode decodes data against this handle's registered type.
func (h *TypeHandle) Decode(data []byte, opts Options) (any, []byte, error) {
	return Decode(h.registry, data, h.typ, opts)
}

// DecodeStrict decodes data against this handle's registered type, panicking on error.
func (h *TypeHandle) DecodeStrict(data []byte, opts Options) (any, []byte) {
	return DecodeStrict(h.registry, data, h.typ, opts)
}

// RegisterStruct declares a named product type. Forward references inside
// fields (a field whose Type is UserRef(name) for a not-yet-registered name)
// are permitted; resolution happens by name at encode/decode time, not at
// registration time, which is what makes mutually-recursive schemas possible.
func (r *Registry) RegisterStruct(name string, fields []Field, prefix *PrefixDef) *TypeHandle {
	r.structs.Store(name, &StructDef{Name: name, Fields: fields, Prefix: prefix})
	return &TypeHandle{registry: r, name: name, typ: UserRef(name)}
}

// RegisterEnum declares a named sum type. Variant discriminants are the
// zero-based index into variants, so declaration order is significant and
// preserved exactly as supplied.
func (r *Registry) RegisterEnum(name string, variants []Variant) *TypeHandle {
	r.enums.Store(name, &EnumDef{Name: name, Variants: variants})
	return &TypeHandle{registry: r, name: name, typ: UserRef(name)}
}

func (r *Registry) resolveStruct(name string) (*StructDef, bool) {
	return r.structs.Load(name)
}

func (r *Registry) resolveEnum(name string) (*EnumDef, bool) {
	return r.enums.Load(name)
}

// maxTupleSize returns the effective ceiling, applying DefaultMaxTupleSize
// when a Registry's field is left unset (e.g. a zero-value Registry).
func (r *Registry) maxTupleSize() int {
	if r.MaxTupleSize <= 0 {
		return DefaultMaxTupleSize
	}
	return r.MaxTupleSize
}

// resolveUserRef looks up a UserRef name against both maps and reports what it found.
func (r *Registry) resolveUserRef(name string) (structDef *StructDef, enumDef *EnumDef, err error) {
	if sd, ok := r.resolveStruct(name); ok {
		return sd, nil, nil
	}
	if ed, ok := r.resolveEnum(name); ok {
		return nil, ed, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}
