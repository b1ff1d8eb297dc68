package codec

import (
	"fmt"
	"reflect"
)

// Kind identifies which shape a Descriptor takes. A Descriptor is data, not a
// Go static type: the dispatcher (dispatch.go) pattern-matches on Kind at
// runtime, which is how this package keeps a single recursive interpreter
// instead of one code path per Go type (SPEC_FULL.md §9, "polymorphic
// recursion").
type Kind int

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindU128
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindF32
	KindF64
	KindBool
	KindStr
	KindOpt
	KindSeq
	KindMap
	KindSet
	KindTup
	KindUserRef
)

func (k Kind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindU128:
		return "u128"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindI128:
		return "i128"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	case KindOpt:
		return "opt"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	case KindSet:
		return "set"
	case KindTup:
		return "tup"
	case KindUserRef:
		return "userref"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Descriptor is the compositional type grammar of SPEC_FULL.md §3. It is an
// immutable value built once by the constructors below and shared by every
// encode/decode call that uses it; nothing in the dispatcher mutates a
// Descriptor after construction.
type Descriptor struct {
	kind Kind
	elem *Descriptor   // Opt/Seq/Set inner type
	key  *Descriptor   // Map key type
	val  *Descriptor   // Map value type
	tup  []*Descriptor // Tup component types
	ref  string        // UserRef registered name
}

func (t *Descriptor) Kind() Kind { return t.kind }

// Elem returns the inner type of an Opt/Seq/Set descriptor.
func (t *Descriptor) Elem() *Descriptor { return t.elem }

// Key returns the key type of a Map descriptor.
func (t *Descriptor) Key() *Descriptor { return t.key }

// Val returns the value type of a Map descriptor.
func (t *Descriptor) Val() *Descriptor { return t.val }

// Components returns the component types of a Tup descriptor.
func (t *Descriptor) Components() []*Descriptor { return t.tup }

// Ref returns the registered name of a UserRef descriptor.
func (t *Descriptor) Ref() string { return t.ref }

func (t *Descriptor) String() string {
	switch t.kind {
	case KindOpt:
		return fmt.Sprintf("Opt(%s)", t.elem)
	case KindSeq:
		return fmt.Sprintf("Seq(%s)", t.elem)
	case KindSet:
		return fmt.Sprintf("Set(%s)", t.elem)
	case KindMap:
		return fmt.Sprintf("Map(%s, %s)", t.key, t.val)
	case KindTup:
		return fmt.Sprintf("Tup%v", t.tup)
	case KindUserRef:
		return fmt.Sprintf("UserRef(%s)", t.ref)
	default:
		return t.kind.String()
	}
}

func primitive(k Kind) *Descriptor { return &Descriptor{kind: k} }

func U8() *Descriptor   { return primitive(KindU8) }
func U16() *Descriptor  { return primitive(KindU16) }
func U32() *Descriptor  { return primitive(KindU32) }
func U64() *Descriptor  { return primitive(KindU64) }
func U128() *Descriptor { return primitive(KindU128) }
func I8() *Descriptor   { return primitive(KindI8) }
func I16() *Descriptor  { return primitive(KindI16) }
func I32() *Descriptor  { return primitive(KindI32) }
func I64() *Descriptor  { return primitive(KindI64) }
func I128() *Descriptor { return primitive(KindI128) }
func F32() *Descriptor  { return primitive(KindF32) }
func F64() *Descriptor  { return primitive(KindF64) }
func Bool() *Descriptor { return primitive(KindBool) }
func Str() *Descriptor  { return primitive(KindStr) }

func Opt(elem *Descriptor) *Descriptor { return &Descriptor{kind: KindOpt, elem: elem} }
func Seq(elem *Descriptor) *Descriptor { return &Descriptor{kind: KindSeq, elem: elem} }
func Set(elem *Descriptor) *Descriptor { return &Descriptor{kind: KindSet, elem: elem} }

func Map(key, val *Descriptor) *Descriptor {
	return &Descriptor{kind: KindMap, key: key, val: val}
}

func Tup(components ...*Descriptor) *Descriptor {
	return &Descriptor{kind: KindTup, tup: components}
}

func UserRef(name string) *Descriptor {
	return &Descriptor{kind: KindUserRef, ref: name}
}

// Options is the single configuration record threaded unchanged through
// every recursive encode/decode call (SPEC_FULL.md §3, §4.6).
type Options struct {
	// Varint, when true, emits every length prefix, every non-byte-wide
	// integer, and every enum discriminant in variable-length form. U8/I8
	// are never affected.
	Varint bool
}

// Uint128 represents an unsigned 128-bit integer as two 64-bit halves, since
// Go has no native 128-bit integer type. Lo holds bits [0,64), Hi holds bits
// [64,128); on the wire the 16 bytes are little-endian, so Lo's bytes come
// first.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

// Int128 represents a signed 128-bit integer in two's-complement form, split
// the same way as Uint128. Hi is signed so its top bit carries the sign.
type Int128 struct {
	Lo uint64
	Hi int64
}

// NewUint128 builds a Uint128 from its high and low 64-bit halves, high first.
func NewUint128(hi, lo uint64) Uint128 { return Uint128{Lo: lo, Hi: hi} }

// NewInt128 builds an Int128 from its high and low 64-bit halves, high first.
func NewInt128(hi int64, lo uint64) Int128 { return Int128{Lo: lo, Hi: hi} }

// Negative reports whether the two's-complement value is negative.
func (v Int128) Negative() bool { return v.Hi < 0 }

// AsUint128 reinterprets the two's-complement bit pattern as unsigned,
// the representation ZigZag mapping operates on.
func (v Int128) AsUint128() Uint128 { return Uint128{Lo: v.Lo, Hi: uint64(v.Hi)} }

// AsInt128 reinterprets an unsigned bit pattern as two's-complement signed.
func (u Uint128) AsInt128() Int128 { return Int128{Lo: u.Lo, Hi: int64(u.Hi)} }

// Option is the value-model stand-in for Opt(T): a present/absent wrapper,
// since Go's `any` alone cannot distinguish "typed nil" from "absent".
type Option struct {
	Valid bool
	Value any
}

// Some wraps a present value.
func Some(v any) Option { return Option{Valid: true, Value: v} }

// None returns an absent option.
func None() Option { return Option{} }

// Tuple is the value-model stand-in for Tup(T1..Tn): a fixed-arity,
// heterogeneous, ordered sequence of values.
type Tuple []any

// StructValue is the value-model stand-in for a registered struct instance:
// an unordered field map, since wire order comes from the registered
// StructDef, not from the value itself.
type StructValue struct {
	Fields map[string]any
}

// NewStructValue builds a StructValue from field name/value pairs.
func NewStructValue(fields map[string]any) *StructValue {
	return &StructValue{Fields: fields}
}

// EnumValue is the value-model stand-in for a registered enum instance:
// the chosen variant's name plus its field values.
type EnumValue struct {
	Variant string
	Fields  map[string]any
}

// NewEnumValue builds an EnumValue for the named variant.
func NewEnumValue(variant string, fields map[string]any) *EnumValue {
	return &EnumValue{Variant: variant, Fields: fields}
}

// SetValue is a value-model container for Set(T). Unlike a Go map[T]struct{}, it
// dedupes by structural equality (reflect.DeepEqual) rather than requiring T
// to be a comparable Go type, so a Set(Set(T)) — whose elements are
// themselves *SetValue values holding a slice — dedupes correctly instead of
// panicking on an unhashable map key (see the Set(Set(T)) open question in
// SPEC_FULL.md §9).
type SetValue struct {
	items []any
}

// NewSetValue builds a SetValue from the given items, deduplicating as it goes.
func NewSetValue(items ...any) *SetValue {
	s := &SetValue{}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts v if no structurally-equal item is already present. It reports
// whether v was newly added.
func (s *SetValue) Add(v any) bool {
	for _, existing := range s.items {
		if reflect.DeepEqual(existing, v) {
			return false
		}
	}
	s.items = append(s.items, v)
	return true
}

// Items returns the set's members in insertion order.
func (s *SetValue) Items() []any { return s.items }

// Len returns the number of distinct members.
func (s *SetValue) Len() int { return len(s.items) }
