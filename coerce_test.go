package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceUnsigned(t *testing.T) {
	u, neg, ok := coerceUnsigned(uint16(42))
	assert.True(t, ok)
	assert.False(t, neg)
	assert.Equal(t, uint64(42), u)

	u, neg, ok = coerceUnsigned(-5)
	assert.True(t, ok)
	assert.True(t, neg)
	assert.Equal(t, uint64(1<<64-5), u)

	_, _, ok = coerceUnsigned("nope")
	assert.False(t, ok)
}

func TestCoerceSigned_Uint64Overflow(t *testing.T) {
	_, ok := coerceSigned(uint64(1) << 63)
	assert.False(t, ok, "a uint64 with the top bit set has no int64 representation")

	i, ok := coerceSigned(uint64(1<<63 - 1))
	assert.True(t, ok)
	assert.Equal(t, int64(1<<63-1), i)
}

func TestCoerceUint128(t *testing.T) {
	u, neg, ok := coerceUint128(uint32(7))
	assert.True(t, ok)
	assert.False(t, neg)
	assert.Equal(t, Uint128{Lo: 7}, u)

	u, neg, ok = coerceUint128(Int128{Lo: 0xFFFFFFFFFFFFFFFF, Hi: -1})
	assert.True(t, ok)
	assert.True(t, neg)
	assert.Equal(t, Uint128{Lo: 0xFFFFFFFFFFFFFFFF, Hi: 0xFFFFFFFFFFFFFFFF}, u)
}

func TestCoerceInt128_RejectsOversizedUint128(t *testing.T) {
	_, ok := coerceInt128(Uint128{Lo: 0, Hi: 1})
	assert.False(t, ok)

	i, ok := coerceInt128(-3)
	assert.True(t, ok)
	assert.Equal(t, int64(-1), i.Hi)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFD), i.Lo)
}

func TestCoerceBytes_AcceptsStringOrBytes(t *testing.T) {
	b, ok := coerceBytes("Bincode")
	assert.True(t, ok)
	assert.Equal(t, []byte("Bincode"), b)

	b, ok = coerceBytes([]byte{1, 2, 3})
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, b)

	_, ok = coerceBytes(42)
	assert.False(t, ok)
}

func TestAsOption(t *testing.T) {
	assert.Equal(t, None(), asOption(nil))
	assert.Equal(t, Some(5), asOption(5))
	assert.Equal(t, Some(5), asOption(Some(5)))
}

func TestAsSeqItems_BytesAsU8Seq(t *testing.T) {
	items, ok := asSeqItems([]byte{1, 2, 3})
	assert.True(t, ok)
	assert.Equal(t, []any{byte(1), byte(2), byte(3)}, items)
}

func TestAsSetItems_DedupesConvenienceSlice(t *testing.T) {
	items, ok := asSetItems([]any{1, 2, 2, 3, 1})
	assert.True(t, ok)
	assert.ElementsMatch(t, []any{1, 2, 3}, items)
}

func TestAsStructValue_AcceptsPlainMap(t *testing.T) {
	sv, err := asStructValue(map[string]any{"x": 1})
	assert.NoError(t, err)
	assert.Equal(t, 1, sv.Fields["x"])

	_, err = asStructValue(42)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestAsEnumValue(t *testing.T) {
	ev, err := asEnumValue(EnumValue{Variant: "V4", Fields: map[string]any{"addr": uint32(1)}})
	assert.NoError(t, err)
	assert.Equal(t, "V4", ev.Variant)

	_, err = asEnumValue("nope")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
