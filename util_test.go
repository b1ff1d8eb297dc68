package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	p := Ptr(uint32(7))
	assert.Equal(t, uint32(7), *p)

	// Distinct calls must not alias the same backing storage.
	q := Ptr(uint32(7))
	*q = 8
	assert.Equal(t, uint32(7), *p)
}

func TestRoundup(t *testing.T) {
	assert.Equal(t, 8, Roundup(1, 8))
	assert.Equal(t, 8, Roundup(8, 8))
	assert.Equal(t, 16, Roundup(9, 8))
	assert.Equal(t, 0, Roundup(0, 4))
}

func TestCheckBufferNotZeros(t *testing.T) {
	assert.NoError(t, CheckBufferNotZeros(nil))
	assert.NoError(t, CheckBufferNotZeros([]byte{0, 0, 0}))
	assert.ErrorIs(t, CheckBufferNotZeros([]byte{0, 1, 0}), ErrTrailingData)
	assert.ErrorIs(t, CheckBufferNotZeros(make([]byte, MAX_PADDING+1)), ErrTrailingData)
}

func TestDiscard(t *testing.T) {
	r := newRepeatReader(0xAB, 10)
	n, err := Discard(r, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

// repeatReader yields an endless stream of the same byte, useful for
// exercising Discard without pulling in a real transport.
type repeatReader struct {
	b byte
	n int
}

func newRepeatReader(b byte, n int) *repeatReader { return &repeatReader{b: b, n: n} }

func (r *repeatReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
	}
	return len(p), nil
}
