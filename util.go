package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is the byte order every Reader/Writer defaults to. Bincode mandates
	// little-endian for every multi-byte primitive and length prefix (§1 Non-goals:
	// no other endianness), so unlike a general-purpose io toolkit this package's
	// default is fixed to LE rather than left at BE.
	Order = LE
)

const BUFFER_SIZE = 4096

var (
	empty   [BUFFER_SIZE]byte
	discard [BUFFER_SIZE]byte
)

func Ptr[T any](v T) *T { return &v } // ptr is a helper function to create a pointer to a value, making test setup cleaner.

func Discard(r io.Reader, n int64) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 {
		return 0, ErrDiscardNegative
	}
	if n <= BUFFER_SIZE {
		skip, err := r.Read(discard[:n])
		return int64(skip), err
	}
	return io.CopyN(io.Discard, r, n)
}

// Roundup rounds n up to the nearest multiple of align.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

// MAX_PADDING defines the maximum number of trailing bytes to check.
// A longer trailing slice is rejected with ErrTrailingData without being
// scanned.
const MAX_PADDING = 1024 // 1KB

// CheckBufferNotZeros verifies that trailing bytes left over after decoding a
// fixed-size or generic value are all zero, guarding against a truncated or
// oversized payload (fixed.go's UnmarshalBinary, generic.go's
// UnmarshalBinaryGeneric).
func CheckBufferNotZeros(b []byte) error {
	if len(b) > MAX_PADDING {
		return fmt.Errorf("%w: exceeds maximum expected size of %d bytes", ErrTrailingData, MAX_PADDING)
	}
	for i, c := range b {
		if c != 0 {
			return fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, c, i)
		}
	}
	return nil
}

