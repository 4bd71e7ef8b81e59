package hash256

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatVector(t *testing.T) {
	var h Hash256
	for i := 0; i < NumWords; i++ {
		h.SetWord(i, uint16(i))
	}
	got := h.Format()
	want := "000f000e000d000c000b000a0009000800070006000500040003000200010000"
	assert.Equal(t, want, got)
}

func TestParseFormatRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		var h Hash256
		for w := 0; w < NumWords; w++ {
			h.SetWord(w, uint16(rng.Intn(1<<16)))
		}
		parsed, err := Parse(h.Format())
		require.NoError(t, err)
		assert.True(t, Equal(h, parsed))
	}
}

func TestParseUppercase(t *testing.T) {
	h, err := Parse("000F000E000D000C000B000A0009000800070006000500040003000200010000")
	require.NoError(t, err)
	assert.Equal(t, "000f000e000d000c000b000a0009000800070006000500040003000200010000", h.Format())
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"",
		"abc",
		"000f000e000d000c000b000a0009000800070006000500040003000200010000z",
		"gggg000e000d000c000b000a0009000800070006000500040003000200010000",
	}
	for _, c := range cases {
		_, err := Parse(c)
		assert.ErrorIs(t, err, ErrMalformed)
	}
}

func TestSetBitGetBit(t *testing.T) {
	h := Clear()
	for _, k := range []int{0, 1, 15, 16, 128, 255} {
		assert.False(t, h.GetBit(k))
		h.SetBit(k)
		assert.True(t, h.GetBit(k))
	}
	assert.Equal(t, 6, h.PopCount())
}

func TestDistanceSymmetricAndZeroSelf(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	randHash := func() Hash256 {
		var h Hash256
		for w := 0; w < NumWords; w++ {
			h.SetWord(w, uint16(rng.Intn(1<<16)))
		}
		return h
	}
	for i := 0; i < 100; i++ {
		a, b := randHash(), randHash()
		assert.Equal(t, Distance(a, b), Distance(b, a))
		assert.Equal(t, 0, Distance(a, a))
	}
}

func TestDistanceBounds(t *testing.T) {
	a := Clear()
	b := Clear()
	for i := 0; i < 256; i++ {
		b.SetBit(i)
	}
	assert.Equal(t, 256, Distance(a, b))
}
