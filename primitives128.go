package codec

import "math"

// --- 128-bit and floating-point wire primitives (SPEC_FULL.md §4.1) ---
//
// These extend the Reader/Writer primitive set from reader.go/writer.go with
// the widths Go has no native support for (128-bit integers) and with the
// IEEE-754 float bit-pattern conversions. They follow the same sticky-error,
// no-op-after-error discipline as every other Reader/Writer method.

// WriteUint128 writes v as 16 little-endian-ordered bytes: Lo's bytes first,
// then Hi's.
func (w *Writer) WriteUint128(v Uint128) {
	if w.err != nil {
		return
	}
	w.WriteUint64(v.Lo)
	w.WriteUint64(v.Hi)
}

// WriteInt128 writes v's two's-complement bit pattern the same way WriteUint128 does.
func (w *Writer) WriteInt128(v Int128) {
	if w.err != nil {
		return
	}
	w.WriteUint64(v.Lo)
	w.WriteUint64(uint64(v.Hi))
}

// ReadUint128 reads 16 bytes into dest.
func (r *Reader) ReadUint128(dest *Uint128) {
	if r.err != nil {
		return
	}
	r.ReadUint64(&dest.Lo)
	r.ReadUint64(&dest.Hi)
}

// ReadInt128 reads 16 bytes into dest, reinterpreting the high half as signed.
func (r *Reader) ReadInt128(dest *Int128) {
	if r.err != nil {
		return
	}
	var hi uint64
	r.ReadUint64(&dest.Lo)
	r.ReadUint64(&hi)
	dest.Hi = int64(hi)
}

// WriteFloat32 writes v's IEEE-754 binary32 bit pattern.
func (w *Writer) WriteFloat32(v float32) {
	if w.err != nil {
		return
	}
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes v's IEEE-754 binary64 bit pattern.
func (w *Writer) WriteFloat64(v float64) {
	if w.err != nil {
		return
	}
	w.WriteUint64(math.Float64bits(v))
}

// ReadFloat32 reads an IEEE-754 binary32 bit pattern into dest.
func (r *Reader) ReadFloat32(dest *float32) {
	if r.err != nil {
		return
	}
	var bits uint32
	r.ReadUint32(&bits)
	if r.err == nil {
		*dest = math.Float32frombits(bits)
	}
}

// ReadFloat64 reads an IEEE-754 binary64 bit pattern into dest.
func (r *Reader) ReadFloat64(dest *float64) {
	if r.err != nil {
		return
	}
	var bits uint64
	r.ReadUint64(&bits)
	if r.err == nil {
		*dest = math.Float64frombits(bits)
	}
}
