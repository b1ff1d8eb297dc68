package codec

// Length & discriminant policy (SPEC_FULL.md §4.3). Every collection length,
// string byte-length, and enum discriminant in the wire format goes through
// exactly these two function pairs, so there is a single place that decides
// fixed-vs-varint — the rest of the dispatcher never re-derives that choice.

// writeLength emits n as the current mode's length prefix: a fixed-size u64
// in default mode (reusing Fixed[uint64]'s reflection-cached encode path),
// or a tagged varint in varint mode.
func writeLength(w *Writer, n int, opts Options) {
	if w.err != nil {
		return
	}
	if opts.Varint {
		w.WriteVarUint(uint64(n))
		return
	}
	f := Fixed[uint64]{Payload: uint64(n)}
	w.WriteFrom(&f)
}

// readLength reads the current mode's length prefix.
func readLength(r *Reader, opts Options) uint64 {
	if r.err != nil {
		return 0
	}
	if opts.Varint {
		var n uint64
		r.ReadVarUint(&n)
		return n
	}
	var f Fixed[uint64]
	if _, err := f.ReadFrom(r); err != nil {
		r.setError(err)
		return 0
	}
	return f.Payload
}

// writeDiscriminant emits idx as the current mode's enum discriminant: a
// fixed-size u32 in default mode, or a tagged varint in varint mode.
func writeDiscriminant(w *Writer, idx int, opts Options) {
	if w.err != nil {
		return
	}
	if opts.Varint {
		w.WriteVarUint(uint64(idx))
		return
	}
	f := Fixed[uint32]{Payload: uint32(idx)}
	w.WriteFrom(&f)
}

// readDiscriminant reads the current mode's enum discriminant.
func readDiscriminant(r *Reader, opts Options) uint32 {
	if r.err != nil {
		return 0
	}
	if opts.Varint {
		var n uint64
		r.ReadVarUint(&n)
		return uint32(n)
	}
	var f Fixed[uint32]
	if _, err := f.ReadFrom(r); err != nil {
		r.setError(err)
		return 0
	}
	return f.Payload
}
