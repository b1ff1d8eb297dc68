package codec

import "fmt"

// dispatch.go is the recursive interpreter at the heart of the package: it
// walks a Descriptor and, in lockstep, either consumes a Go value and emits
// bytes or consumes bytes and produces a Go value. Every other file in the
// package (composite.go, policy.go, varint.go, primitives128.go, schema.go)
// exists to give this pair of functions somewhere to delegate to for one
// Kind. This is the "type-directed dispatcher" design described in
// SPEC_FULL.md §9: the recursion is driven by Descriptor data, not by a Go
// type switch over the value.

// maxAllocLen bounds a single length-prefixed allocation so a corrupt or
// hostile input's declared length cannot force an out-of-memory allocation
// before the reader has even confirmed that many bytes exist.
const maxAllocLen = 1 << 32

func encodeValue(w *Writer, reg *Registry, v any, t *Descriptor, opts Options) error {
	if w.err != nil {
		return w.err
	}
	switch t.Kind() {
	case KindU8:
		u, neg, ok := coerceUnsigned(v)
		if !ok {
			return fmt.Errorf("%w: expected u8, got %T", ErrTypeMismatch, v)
		}
		if neg {
			return fmt.Errorf("%w: %v for u8", ErrNegativeUnsigned, v)
		}
		if u > 0xFF {
			return fmt.Errorf("%w: %d overflows u8", ErrTypeMismatch, u)
		}
		w.WriteUint8(uint8(u))
		return w.err
	case KindU16:
		u, neg, ok := coerceUnsigned(v)
		if !ok {
			return fmt.Errorf("%w: expected u16, got %T", ErrTypeMismatch, v)
		}
		if neg {
			return fmt.Errorf("%w: %v for u16", ErrNegativeUnsigned, v)
		}
		if u > 0xFFFF {
			return fmt.Errorf("%w: %d overflows u16", ErrTypeMismatch, u)
		}
		if opts.Varint {
			w.WriteVarUint(u)
		} else {
			w.WriteUint16(uint16(u))
		}
		return w.err
	case KindU32:
		u, neg, ok := coerceUnsigned(v)
		if !ok {
			return fmt.Errorf("%w: expected u32, got %T", ErrTypeMismatch, v)
		}
		if neg {
			return fmt.Errorf("%w: %v for u32", ErrNegativeUnsigned, v)
		}
		if u > 0xFFFFFFFF {
			return fmt.Errorf("%w: %d overflows u32", ErrTypeMismatch, u)
		}
		if opts.Varint {
			w.WriteVarUint(u)
		} else {
			w.WriteUint32(uint32(u))
		}
		return w.err
	case KindU64:
		u, neg, ok := coerceUnsigned(v)
		if !ok {
			return fmt.Errorf("%w: expected u64, got %T", ErrTypeMismatch, v)
		}
		if neg {
			return fmt.Errorf("%w: %v for u64", ErrNegativeUnsigned, v)
		}
		if opts.Varint {
			w.WriteVarUint(u)
		} else {
			w.WriteUint64(u)
		}
		return w.err
	case KindU128:
		u, neg, ok := coerceUint128(v)
		if !ok {
			return fmt.Errorf("%w: expected u128, got %T", ErrTypeMismatch, v)
		}
		if neg {
			return fmt.Errorf("%w: %v for u128", ErrNegativeUnsigned, v)
		}
		if opts.Varint {
			w.WriteVarUint128(u)
		} else {
			w.WriteUint128(u)
		}
		return w.err
	case KindI8:
		i, ok := coerceSigned(v)
		if !ok {
			return fmt.Errorf("%w: expected i8, got %T", ErrTypeMismatch, v)
		}
		if i < -128 || i > 127 {
			return fmt.Errorf("%w: %d overflows i8", ErrTypeMismatch, i)
		}
		w.WriteInt8(int8(i))
		return w.err
	case KindI16:
		i, ok := coerceSigned(v)
		if !ok {
			return fmt.Errorf("%w: expected i16, got %T", ErrTypeMismatch, v)
		}
		if i < -1<<15 || i > 1<<15-1 {
			return fmt.Errorf("%w: %d overflows i16", ErrTypeMismatch, i)
		}
		if opts.Varint {
			w.WriteVarUint(ZigZagEncode64(i))
		} else {
			w.WriteInt16(int16(i))
		}
		return w.err
	case KindI32:
		i, ok := coerceSigned(v)
		if !ok {
			return fmt.Errorf("%w: expected i32, got %T", ErrTypeMismatch, v)
		}
		if i < -1<<31 || i > 1<<31-1 {
			return fmt.Errorf("%w: %d overflows i32", ErrTypeMismatch, i)
		}
		if opts.Varint {
			w.WriteVarUint(ZigZagEncode64(i))
		} else {
			w.WriteInt32(int32(i))
		}
		return w.err
	case KindI64:
		i, ok := coerceSigned(v)
		if !ok {
			return fmt.Errorf("%w: expected i64, got %T", ErrTypeMismatch, v)
		}
		if opts.Varint {
			w.WriteVarUint(ZigZagEncode64(i))
		} else {
			w.WriteInt64(i)
		}
		return w.err
	case KindI128:
		i, ok := coerceInt128(v)
		if !ok {
			return fmt.Errorf("%w: expected i128, got %T", ErrTypeMismatch, v)
		}
		if opts.Varint {
			w.WriteVarUint128(ZigZagEncode128(i))
		} else {
			w.WriteInt128(i)
		}
		return w.err
	case KindF32:
		f, ok := coerceFloat(v)
		if !ok {
			return fmt.Errorf("%w: expected f32, got %T", ErrTypeMismatch, v)
		}
		w.WriteFloat32(float32(f))
		return w.err
	case KindF64:
		f, ok := coerceFloat(v)
		if !ok {
			return fmt.Errorf("%w: expected f64, got %T", ErrTypeMismatch, v)
		}
		w.WriteFloat64(f)
		return w.err
	case KindBool:
		b, ok := coerceBool(v)
		if !ok {
			return fmt.Errorf("%w: expected bool, got %T", ErrTypeMismatch, v)
		}
		w.WriteBool(b)
		return w.err
	case KindStr:
		b, ok := coerceBytes(v)
		if !ok {
			return fmt.Errorf("%w: expected string, got %T", ErrTypeMismatch, v)
		}
		writeLength(w, len(b), opts)
		if w.err != nil {
			return w.err
		}
		w.WriteBytes(b)
		return w.err
	case KindOpt:
		return encodeOpt(w, reg, v, t.elem, opts)
	case KindSeq:
		return encodeSeq(w, reg, v, t.elem, opts)
	case KindSet:
		return encodeSet(w, reg, v, t.elem, opts)
	case KindMap:
		return encodeMap(w, reg, v, t.key, t.val, opts)
	case KindTup:
		if len(t.tup) < 1 || len(t.tup) > reg.maxTupleSize() {
			return fmt.Errorf("%w: %d components exceeds limit of %d", ErrTupleTooLarge, len(t.tup), reg.maxTupleSize())
		}
		return encodeTup(w, reg, v, t.tup, opts)
	case KindUserRef:
		return encodeUserRef(w, reg, v, t.ref, opts)
	default:
		return fmt.Errorf("%w: %s", ErrSchemaMismatch, t)
	}
}

func decodeValue(r *Reader, reg *Registry, t *Descriptor, opts Options) (any, error) {
	if r.err != nil {
		return nil, mapReadErr(r.err)
	}
	switch t.Kind() {
	case KindU8:
		var u uint8
		r.ReadUint8(&u)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return u, nil
	case KindU16:
		if opts.Varint {
			var u uint64
			r.ReadVarUint(&u)
			if r.err != nil {
				return nil, mapReadErr(r.err)
			}
			return uint16(u), nil
		}
		var u uint16
		r.ReadUint16(&u)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return u, nil
	case KindU32:
		if opts.Varint {
			var u uint64
			r.ReadVarUint(&u)
			if r.err != nil {
				return nil, mapReadErr(r.err)
			}
			return uint32(u), nil
		}
		var u uint32
		r.ReadUint32(&u)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return u, nil
	case KindU64:
		if opts.Varint {
			var u uint64
			r.ReadVarUint(&u)
			if r.err != nil {
				return nil, mapReadErr(r.err)
			}
			return u, nil
		}
		var u uint64
		r.ReadUint64(&u)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return u, nil
	case KindU128:
		var u Uint128
		if opts.Varint {
			r.ReadVarUint128(&u)
		} else {
			r.ReadUint128(&u)
		}
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return u, nil
	case KindI8:
		var i int8
		r.ReadInt8(&i)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return i, nil
	case KindI16:
		if opts.Varint {
			var u uint64
			r.ReadVarUint(&u)
			if r.err != nil {
				return nil, mapReadErr(r.err)
			}
			return int16(ZigZagDecode64(u)), nil
		}
		var i int16
		r.ReadInt16(&i)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return i, nil
	case KindI32:
		if opts.Varint {
			var u uint64
			r.ReadVarUint(&u)
			if r.err != nil {
				return nil, mapReadErr(r.err)
			}
			return int32(ZigZagDecode64(u)), nil
		}
		var i int32
		r.ReadInt32(&i)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return i, nil
	case KindI64:
		if opts.Varint {
			var u uint64
			r.ReadVarUint(&u)
			if r.err != nil {
				return nil, mapReadErr(r.err)
			}
			return ZigZagDecode64(u), nil
		}
		var i int64
		r.ReadInt64(&i)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return i, nil
	case KindI128:
		if opts.Varint {
			var u Uint128
			r.ReadVarUint128(&u)
			if r.err != nil {
				return nil, mapReadErr(r.err)
			}
			return ZigZagDecode128(u), nil
		}
		var i Int128
		r.ReadInt128(&i)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return i, nil
	case KindF32:
		var f float32
		r.ReadFloat32(&f)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return f, nil
	case KindF64:
		var f float64
		r.ReadFloat64(&f)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return f, nil
	case KindBool:
		tag, err := r.ReadByte()
		if err != nil {
			return nil, mapReadErr(err)
		}
		switch tag {
		case 0x00:
			return false, nil
		case 0x01:
			return true, nil
		default:
			return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidBool, tag)
		}
	case KindStr:
		n := readLength(r, opts)
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		if n > uint64(maxAllocLen) {
			return nil, fmt.Errorf("%w: string length %d exceeds sanity limit", ErrTruncatedInput, n)
		}
		b := r.ReadBytes(int(n))
		if r.err != nil {
			return nil, mapReadErr(r.err)
		}
		return string(b), nil
	case KindOpt:
		return decodeOpt(r, reg, t.elem, opts)
	case KindSeq:
		return decodeSeq(r, reg, t.elem, opts)
	case KindSet:
		return decodeSet(r, reg, t.elem, opts)
	case KindMap:
		return decodeMap(r, reg, t.key, t.val, opts)
	case KindTup:
		if len(t.tup) < 1 || len(t.tup) > reg.maxTupleSize() {
			return nil, fmt.Errorf("%w: %d components exceeds limit of %d", ErrTupleTooLarge, len(t.tup), reg.maxTupleSize())
		}
		return decodeTup(r, reg, t.tup, opts)
	case KindUserRef:
		return decodeUserRef(r, reg, t.ref, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrSchemaMismatch, t)
	}
}

// --- struct / enum dispatch via the Registry (SPEC_FULL.md §4.5) ---

func encodeFields(w *Writer, reg *Registry, fields []Field, values map[string]any, opts Options) error {
	for _, f := range fields {
		v, ok := values[f.Name]
		if !ok {
			return fmt.Errorf("%w: missing field %q", ErrSchemaMismatch, f.Name)
		}
		if err := encodeValue(w, reg, v, f.Type, opts); err != nil {
			return err
		}
	}
	return nil
}

func decodeFields(r *Reader, reg *Registry, fields []Field, opts Options) (map[string]any, error) {
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		v, err := decodeValue(r, reg, f.Type, opts)
		if err != nil {
			return nil, err
		}
		values[f.Name] = v
	}
	return values, nil
}

func encodeStruct(w *Writer, reg *Registry, sd *StructDef, v any, opts Options) error {
	sv, err := asStructValue(v)
	if err != nil {
		return err
	}
	if sd.Prefix != nil {
		if err := encodeValue(w, reg, sd.Prefix.Value, sd.Prefix.Type, opts); err != nil {
			return err
		}
	}
	return encodeFields(w, reg, sd.Fields, sv.Fields, opts)
}

func decodeStruct(r *Reader, reg *Registry, sd *StructDef, opts Options) (any, error) {
	if sd.Prefix != nil {
		if _, err := decodeValue(r, reg, sd.Prefix.Type, opts); err != nil {
			return nil, err
		}
	}
	fields, err := decodeFields(r, reg, sd.Fields, opts)
	if err != nil {
		return nil, err
	}
	return &StructValue{Fields: fields}, nil
}

// encodeEnum writes the variant's discriminant exactly once, then its field
// body immediately after — the REDESIGN FLAGS fix in SPEC_FULL.md §9 for the
// double-discriminant-read bug: there is no intermediate struct-shaped codec
// here that would try to read or write a second copy of the tag.
func encodeEnum(w *Writer, reg *Registry, ed *EnumDef, v any, opts Options) error {
	ev, err := asEnumValue(v)
	if err != nil {
		return err
	}
	idx, ok := ed.variantIndex(ev.Variant)
	if !ok {
		return fmt.Errorf("%w: %q has no variant %q", ErrSchemaMismatch, ed.Name, ev.Variant)
	}
	writeDiscriminant(w, idx, opts)
	if w.err != nil {
		return w.err
	}
	return encodeFields(w, reg, ed.Variants[idx].Fields, ev.Fields, opts)
}

func decodeEnum(r *Reader, reg *Registry, ed *EnumDef, opts Options) (any, error) {
	idx := readDiscriminant(r, opts)
	if r.err != nil {
		return nil, mapReadErr(r.err)
	}
	if int(idx) >= len(ed.Variants) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, idx)
	}
	variant := ed.Variants[idx]
	fields, err := decodeFields(r, reg, variant.Fields, opts)
	if err != nil {
		return nil, err
	}
	return &EnumValue{Variant: variant.Name, Fields: fields}, nil
}

func encodeUserRef(w *Writer, reg *Registry, v any, name string, opts Options) error {
	sd, ed, err := reg.resolveUserRef(name)
	if err != nil {
		return err
	}
	if sd != nil {
		return encodeStruct(w, reg, sd, v, opts)
	}
	return encodeEnum(w, reg, ed, v, opts)
}

func decodeUserRef(r *Reader, reg *Registry, name string, opts Options) (any, error) {
	sd, ed, err := reg.resolveUserRef(name)
	if err != nil {
		return nil, err
	}
	if sd != nil {
		return decodeStruct(r, reg, sd, opts)
	}
	return decodeEnum(r, reg, ed, opts)
}
