package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLiteralScenarios exercises the value/wire pairs a host would use to
// sanity-check a fresh registry against known-good Bincode output.
func TestLiteralScenarios(t *testing.T) {
	t.Run("255 as U8", func(t *testing.T) {
		data, err := Encode(nil, 255, U8(), Options{})
		require.NoError(t, err)
		assert.Equal(t, []byte{255}, data)
	})

	t.Run("12 as U64 varint", func(t *testing.T) {
		data, err := Encode(nil, 12, U64(), Options{Varint: true})
		require.NoError(t, err)
		assert.Equal(t, []byte{12}, data)
	})

	t.Run("34561 as U16 varint", func(t *testing.T) {
		data, err := Encode(nil, 34561, U16(), Options{Varint: true})
		require.NoError(t, err)
		assert.Equal(t, []byte{0xFB, 0x01, 0x87}, data)

		v, rest, err := Decode(nil, data, U16(), Options{Varint: true})
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.Equal(t, uint16(34561), v)
	})

	t.Run("Bincode as Str default", func(t *testing.T) {
		data, err := Encode(nil, "Bincode", Str(), Options{})
		require.NoError(t, err)
		expected := append([]byte{7, 0, 0, 0, 0, 0, 0, 0}, []byte("Bincode")...)
		assert.Equal(t, expected, data)
	})

	t.Run("negative i32 zigzag varint", func(t *testing.T) {
		data, err := Encode(nil, -1, I32(), Options{Varint: true})
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, data) // ZigZag(-1) == 1

		v, _, err := Decode(nil, data, I32(), Options{Varint: true})
		require.NoError(t, err)
		assert.Equal(t, int32(-1), v)
	})
}

func TestEncodeValue_OverflowAndSign(t *testing.T) {
	_, err := Encode(nil, 256, U8(), Options{})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Encode(nil, -1, U8(), Options{})
	assert.ErrorIs(t, err, ErrNegativeUnsigned)

	_, err = Encode(nil, 128, I8(), Options{})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Encode(nil, "nope", U32(), Options{})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDecodeValue_InvalidBoolByte(t *testing.T) {
	_, _, err := Decode(nil, []byte{0x02}, Bool(), Options{})
	assert.ErrorIs(t, err, ErrInvalidBool)
}

func TestDecodeValue_TruncatedInput(t *testing.T) {
	_, _, err := Decode(nil, []byte{0x01, 0x02}, U32(), Options{})
	assert.ErrorIs(t, err, ErrTruncatedInput)
}

// registerIPAddr mirrors a typical tagged-union wire schema: an enum whose
// variants each carry a differently-sized address payload.
func registerIPAddr(reg *Registry) *TypeHandle {
	return reg.RegisterEnum("IpAddr", []Variant{
		{Name: "V4", Fields: []Field{{Name: "addr", Type: U32()}}},
		{Name: "V6", Fields: []Field{{Name: "addr", Type: U128()}}},
	})
}

func TestEnum_RoundTrip_DefaultMode(t *testing.T) {
	reg := NewRegistry()
	handle := registerIPAddr(reg)

	data, err := handle.Encode(NewEnumValue("V4", map[string]any{"addr": uint32(0x7F000001)}), Options{})
	require.NoError(t, err)
	// discriminant (u32 LE, index 0) then the u32 field.
	assert.Equal(t, []byte{0, 0, 0, 0, 0x01, 0x00, 0x00, 0x7F}, data)

	v, rest, err := handle.Decode(data, Options{})
	require.NoError(t, err)
	assert.Empty(t, rest)
	ev, ok := v.(*EnumValue)
	require.True(t, ok)
	assert.Equal(t, "V4", ev.Variant)
	assert.Equal(t, uint32(0x7F000001), ev.Fields["addr"])
}

func TestEnum_RoundTrip_VarintMode(t *testing.T) {
	reg := NewRegistry()
	handle := registerIPAddr(reg)

	data, err := handle.Encode(NewEnumValue("V6", map[string]any{"addr": NewUint128(0, 1)}), Options{Varint: true})
	require.NoError(t, err)

	v, rest, err := handle.Decode(data, Options{Varint: true})
	require.NoError(t, err)
	assert.Empty(t, rest)
	ev := v.(*EnumValue)
	assert.Equal(t, "V6", ev.Variant)
	assert.Equal(t, NewUint128(0, 1), ev.Fields["addr"])
}

// TestEnum_DiscriminantReadExactlyOnce is the regression test for the
// REDESIGN FLAGS fix: decoding a variant must consume its tag exactly once,
// not once for a wrapper shape and again for the variant body.
func TestEnum_DiscriminantReadExactlyOnce(t *testing.T) {
	reg := NewRegistry()
	handle := registerIPAddr(reg)

	first, err := handle.Encode(NewEnumValue("V4", map[string]any{"addr": uint32(1)}), Options{})
	require.NoError(t, err)
	second, err := handle.Encode(NewEnumValue("V4", map[string]any{"addr": uint32(2)}), Options{})
	require.NoError(t, err)

	// Two encoded enum values back-to-back in one buffer: if the discriminant
	// were read twice, the second Decode would desync and either error or
	// return the wrong addr.
	buf := append(append([]byte{}, first...), second...)
	v1, rest, err := handle.Decode(buf, Options{})
	require.NoError(t, err)
	v2, rest2, err := handle.Decode(rest, Options{})
	require.NoError(t, err)
	assert.Empty(t, rest2)
	assert.Equal(t, uint32(1), v1.(*EnumValue).Fields["addr"])
	assert.Equal(t, uint32(2), v2.(*EnumValue).Fields["addr"])
}

func TestEnum_UnknownVariantName(t *testing.T) {
	reg := NewRegistry()
	handle := registerIPAddr(reg)
	_, err := handle.Encode(NewEnumValue("V9", nil), Options{})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestEnum_UnknownDiscriminantOnDecode(t *testing.T) {
	reg := NewRegistry()
	handle := registerIPAddr(reg)
	// Discriminant 9 does not exist among the two registered variants.
	_, _, err := handle.Decode([]byte{9, 0, 0, 0}, Options{})
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestStruct_RoundTrip_WithPrefix(t *testing.T) {
	reg := NewRegistry()
	handle := reg.RegisterStruct("Packet", []Field{
		{Name: "id", Type: U32()},
		{Name: "payload", Type: Seq(U8())},
	}, &PrefixDef{Value: uint16(0xCAFE), Type: U16()})

	v := NewStructValue(map[string]any{"id": uint32(7), "payload": []byte{1, 2, 3}})
	data, err := handle.Encode(v, Options{})
	require.NoError(t, err)

	got, rest, err := handle.Decode(data, Options{})
	require.NoError(t, err)
	assert.Empty(t, rest)
	sv := got.(*StructValue)
	assert.Equal(t, uint32(7), sv.Fields["id"])
	assert.Equal(t, []any{byte(1), byte(2), byte(3)}, sv.Fields["payload"])
}

func TestStruct_MissingField(t *testing.T) {
	reg := NewRegistry()
	handle := reg.RegisterStruct("Point", []Field{
		{Name: "x", Type: I32()},
		{Name: "y", Type: I32()},
	}, nil)
	_, err := handle.Encode(NewStructValue(map[string]any{"x": int32(1)}), Options{})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestUserRef_UnknownType(t *testing.T) {
	reg := NewRegistry()
	_, err := Encode(reg, nil, UserRef("Nope"), Options{})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestSelfRecursiveStruct_ForwardReference(t *testing.T) {
	reg := NewRegistry()
	// "Node" references itself via UserRef("Node") before its own registration
	// is stored; resolution is deferred to encode/decode time via
	// resolveUserRef, so the reference need not resolve at registration.
	node := reg.RegisterStruct("Node", []Field{
		{Name: "value", Type: I32()},
		{Name: "next", Type: Opt(UserRef("Node"))},
	}, nil)

	inner := NewStructValue(map[string]any{"value": int32(2), "next": None()})
	outer := NewStructValue(map[string]any{"value": int32(1), "next": Some(inner)})

	data, err := node.Encode(outer, Options{})
	require.NoError(t, err)

	got, rest, err := node.Decode(data, Options{})
	require.NoError(t, err)
	assert.Empty(t, rest)
	sv := got.(*StructValue)
	assert.Equal(t, int32(1), sv.Fields["value"])
	nextOpt := sv.Fields["next"].(Option)
	require.True(t, nextOpt.Valid)
	assert.Equal(t, int32(2), nextOpt.Value.(*StructValue).Fields["value"])
}
