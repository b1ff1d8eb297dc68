package codec

import (
	"bytes"
	"fmt"
	"io"
)

// composite.go implements the collection and product/sum-adjacent shapes of
// the type grammar: Opt, Seq, Set, Map, Tup. Seq/Set/Map delegate their
// element stream to list.go's List0 on encode, via the two Codec adapters
// below, rather than a hand-rolled write loop (SPEC_FULL.md §4.4).

// dynamicCodec adapts a single (registry, options, descriptor, value) tuple
// to the Codec interface so a homogeneous slice of them can be handed to
// list.go's List0 sequence writer. MarshalBinary encodes the value directly
// (and caches the bytes, which Size measures); WriteTo and MarshalTo go
// through generic.go's WriteToGeneric/MarshalToGeneric helpers. ReadFrom does
// not drain its io.Reader: it decodes exactly one value against the shared
// *Reader, leaving sibling elements and trailing bytes unread (see the
// list.go divergence noted in SPEC_FULL.md §4.4).
type dynamicCodec struct {
	reg  *Registry
	opts Options
	typ  *Descriptor
	v    any
	buf  []byte
}

var _ Codec = (*dynamicCodec)(nil)

func newDynamicCodec(reg *Registry, opts Options, typ *Descriptor, v any) *dynamicCodec {
	return &dynamicCodec{reg: reg, opts: opts, typ: typ, v: v}
}

func (c *dynamicCodec) MarshalBinary() ([]byte, error) {
	if c.buf != nil {
		return c.buf, nil
	}
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if err := encodeValue(w, c.reg, c.v, c.typ, c.opts); err != nil {
		return nil, err
	}
	if _, err := w.Result(); err != nil {
		return nil, err
	}
	c.buf = buf.Bytes()
	return c.buf, nil
}

func (c *dynamicCodec) UnmarshalBinary(data []byte) error {
	r, err := NewReader(NewBytesReader(data))
	if err != nil {
		return err
	}
	v, err := decodeValue(r, c.reg, c.typ, c.opts)
	if err != nil {
		return err
	}
	c.v = v
	return nil
}

func (c *dynamicCodec) Size() int {
	b, err := c.MarshalBinary()
	if err != nil {
		return 0
	}
	return len(b)
}

func (c *dynamicCodec) WriteTo(w io.Writer) (int64, error) {
	return WriteToGeneric(c, w)
}

func (c *dynamicCodec) MarshalTo(buf []byte) (int, error) {
	return MarshalToGeneric(c, buf)
}

func (c *dynamicCodec) ReadFrom(r io.Reader) (int64, error) {
	rd, err := asReader(r)
	if err != nil {
		return 0, err
	}
	before := rd.Count()
	v, err := decodeValue(rd, c.reg, c.typ, c.opts)
	if err != nil {
		return rd.Count() - before, err
	}
	c.v = v
	return rd.Count() - before, nil
}

// pairCodec is dynamicCodec's counterpart for Map(K, V): a key and a value
// encoded back to back with no separator, since a Map entry has no length
// prefix of its own (SPEC_FULL.md §4.4).
type pairCodec struct {
	reg     *Registry
	opts    Options
	keyType *Descriptor
	valType *Descriptor
	key     any
	val     any
	buf     []byte
}

var _ Codec = (*pairCodec)(nil)

func newPairCodec(reg *Registry, opts Options, kt, vt *Descriptor, k, v any) *pairCodec {
	return &pairCodec{reg: reg, opts: opts, keyType: kt, valType: vt, key: k, val: v}
}

func (c *pairCodec) MarshalBinary() ([]byte, error) {
	if c.buf != nil {
		return c.buf, nil
	}
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if err := encodeValue(w, c.reg, c.key, c.keyType, c.opts); err != nil {
		return nil, err
	}
	if err := encodeValue(w, c.reg, c.val, c.valType, c.opts); err != nil {
		return nil, err
	}
	if _, err := w.Result(); err != nil {
		return nil, err
	}
	c.buf = buf.Bytes()
	return c.buf, nil
}

func (c *pairCodec) UnmarshalBinary(data []byte) error {
	r, err := NewReader(NewBytesReader(data))
	if err != nil {
		return err
	}
	k, err := decodeValue(r, c.reg, c.keyType, c.opts)
	if err != nil {
		return err
	}
	v, err := decodeValue(r, c.reg, c.valType, c.opts)
	if err != nil {
		return err
	}
	c.key, c.val = k, v
	return nil
}

func (c *pairCodec) Size() int {
	b, err := c.MarshalBinary()
	if err != nil {
		return 0
	}
	return len(b)
}

func (c *pairCodec) WriteTo(w io.Writer) (int64, error) {
	return WriteToGeneric(c, w)
}

func (c *pairCodec) MarshalTo(buf []byte) (int, error) {
	return MarshalToGeneric(c, buf)
}

func (c *pairCodec) ReadFrom(r io.Reader) (int64, error) {
	rd, err := asReader(r)
	if err != nil {
		return 0, err
	}
	before := rd.Count()
	k, err := decodeValue(rd, c.reg, c.keyType, c.opts)
	if err != nil {
		return rd.Count() - before, err
	}
	v, err := decodeValue(rd, c.reg, c.valType, c.opts)
	if err != nil {
		return rd.Count() - before, err
	}
	c.key, c.val = k, v
	return rd.Count() - before, nil
}

// asReader adapts an io.Reader to *Reader, reusing it directly when it
// already is one instead of wrapping it (which would reset its error/count
// tracking and desynchronize it from the caller's cursor).
func asReader(r io.Reader) (*Reader, error) {
	if rd, ok := r.(*Reader); ok {
		return rd, nil
	}
	return NewReader(r)
}

// mapReadErr turns a bare io error surfaced by the Reader's sticky-error
// tracking into the domain's ErrTruncatedInput, preserving anything else
// (e.g. ErrInvalidVarint) as-is.
func mapReadErr(err error) error {
	if err == nil {
		return nil
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: %v", ErrTruncatedInput, err)
	}
	return err
}

// --- Opt(T) ---

func encodeOpt(w *Writer, reg *Registry, v any, elemType *Descriptor, opts Options) error {
	opt := asOption(v)
	if !opt.Valid {
		w.WriteByte(0x00)
		return w.err
	}
	if err := w.WriteByte(0x01); err != nil {
		return err
	}
	return encodeValue(w, reg, opt.Value, elemType, opts)
}

func decodeOpt(r *Reader, reg *Registry, elemType *Descriptor, opts Options) (Option, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return Option{}, mapReadErr(err)
	}
	switch tag {
	case 0x00:
		return None(), nil
	case 0x01:
		v, err := decodeValue(r, reg, elemType, opts)
		if err != nil {
			return Option{}, err
		}
		return Some(v), nil
	default:
		return Option{}, fmt.Errorf("%w: tag byte 0x%02x", ErrInvalidOption, tag)
	}
}

// --- Seq(T) ---

func encodeSeq(w *Writer, reg *Registry, v any, elemType *Descriptor, opts Options) error {
	items, ok := asSeqItems(v)
	if !ok {
		return fmt.Errorf("%w: expected a sequence, got %T", ErrTypeMismatch, v)
	}
	writeLength(w, len(items), opts)
	if w.err != nil {
		return w.err
	}
	elems := make([]*dynamicCodec, len(items))
	for i, it := range items {
		elems[i] = newDynamicCodec(reg, opts, elemType, it)
	}
	w.WriteFrom(NewList0(elems))
	return w.err
}

func decodeSeqItems(r *Reader, reg *Registry, elemType *Descriptor, count uint64, opts Options) ([]any, error) {
	items := make([]any, 0, count)
	for i := uint64(0); i < count; i++ {
		dc := newDynamicCodec(reg, opts, elemType, nil)
		if _, err := dc.ReadFrom(r); err != nil {
			return nil, err
		}
		items = append(items, dc.v)
	}
	return items, nil
}

func decodeSeq(r *Reader, reg *Registry, elemType *Descriptor, opts Options) ([]any, error) {
	count := readLength(r, opts)
	if r.err != nil {
		return nil, mapReadErr(r.err)
	}
	return decodeSeqItems(r, reg, elemType, count, opts)
}

// --- Set(T) ---

func encodeSet(w *Writer, reg *Registry, v any, elemType *Descriptor, opts Options) error {
	items, ok := asSetItems(v)
	if !ok {
		return fmt.Errorf("%w: expected a set, got %T", ErrTypeMismatch, v)
	}
	return encodeSeq(w, reg, items, elemType, opts)
}

func decodeSet(r *Reader, reg *Registry, elemType *Descriptor, opts Options) (*SetValue, error) {
	items, err := decodeSeq(r, reg, elemType, opts)
	if err != nil {
		return nil, err
	}
	return NewSetValue(items...), nil
}

// --- Map(K, V) ---

func encodeMap(w *Writer, reg *Registry, v any, keyType, valType *Descriptor, opts Options) error {
	m, ok := asMapPairs(v)
	if !ok {
		return fmt.Errorf("%w: expected a map, got %T", ErrTypeMismatch, v)
	}
	writeLength(w, len(m), opts)
	if w.err != nil {
		return w.err
	}
	pairs := make([]*pairCodec, 0, len(m))
	for k, val := range m {
		pairs = append(pairs, newPairCodec(reg, opts, keyType, valType, k, val))
	}
	w.WriteFrom(NewList0(pairs))
	return w.err
}

func decodeMap(r *Reader, reg *Registry, keyType, valType *Descriptor, opts Options) (map[any]any, error) {
	count := readLength(r, opts)
	if r.err != nil {
		return nil, mapReadErr(r.err)
	}
	m := make(map[any]any, count)
	for i := uint64(0); i < count; i++ {
		pc := newPairCodec(reg, opts, keyType, valType, nil, nil)
		if _, err := pc.ReadFrom(r); err != nil {
			return nil, err
		}
		m[pc.key] = pc.val
	}
	return m, nil
}

// --- Tup(T1..Tn) ---

func encodeTup(w *Writer, reg *Registry, v any, components []*Descriptor, opts Options) error {
	tup, ok := asTuple(v)
	if !ok {
		return fmt.Errorf("%w: expected a tuple, got %T", ErrTypeMismatch, v)
	}
	if len(tup) != len(components) {
		return fmt.Errorf("%w: expected %d components, got %d", ErrArityMismatch, len(components), len(tup))
	}
	for i, ct := range components {
		if err := encodeValue(w, reg, tup[i], ct, opts); err != nil {
			return err
		}
	}
	return nil
}

func decodeTup(r *Reader, reg *Registry, components []*Descriptor, opts Options) (Tuple, error) {
	out := make(Tuple, len(components))
	for i, ct := range components {
		v, err := decodeValue(r, reg, ct, opts)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
