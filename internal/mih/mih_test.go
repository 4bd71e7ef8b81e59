package mih

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/JustinTDCT/pifindex/internal/hash256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomHash(rng *rand.Rand) hash256.Hash256 {
	var h hash256.Hash256
	for w := 0; w < hash256.NumWords; w++ {
		h.SetWord(w, uint16(rng.Intn(1<<16)))
	}
	return h
}

func bruteForce(entries []hash256.Hash256, q hash256.Hash256, d int) []int {
	var out []int
	for i, e := range entries {
		if hash256.Distance(q, e) <= d {
			out = append(out, i)
		}
	}
	return out
}

func TestInsertLenAndEntryAt(t *testing.T) {
	idx := New()
	assert.Equal(t, 0, idx.Len())

	rng := rand.New(rand.NewSource(1))
	h := randomHash(rng)
	n := idx.Insert(Entry{Fingerprint: h, Metadata: "first"})
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, idx.Len())
	assert.True(t, hash256.Equal(h, idx.EntryAt(0).Fingerprint))
	assert.Equal(t, "first", idx.EntryAt(0).Metadata)
}

func TestQueryBadRadius(t *testing.T) {
	idx := New()
	_, err := idx.Query(hash256.Clear(), -1)
	assert.ErrorIs(t, err, ErrBadRadius)
	_, err = idx.Query(hash256.Clear(), 257)
	assert.ErrorIs(t, err, ErrBadRadius)
}

func TestQueryExactMatchAtZeroRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	idx := New()
	target := randomHash(rng)
	idx.Insert(Entry{Fingerprint: randomHash(rng)})
	idx.Insert(Entry{Fingerprint: target})
	idx.Insert(Entry{Fingerprint: randomHash(rng)})

	matches, err := idx.Query(target, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0])
}

func TestQueryFullRadiusReturnsEverything(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	idx := New()
	for i := 0; i < 50; i++ {
		idx.Insert(Entry{Fingerprint: randomHash(rng)})
	}
	matches, err := idx.Query(randomHash(rng), 256)
	require.NoError(t, err)
	assert.Len(t, matches, 50)
}

func TestQueryMatchesBruteForceSmallRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	idx := New()
	var raw []hash256.Hash256
	for i := 0; i < 2000; i++ {
		h := randomHash(rng)
		raw = append(raw, h)
		idx.Insert(Entry{Fingerprint: h})
	}

	for q := 0; q < 20; q++ {
		query := randomHash(rng)
		for _, d := range []int{0, 1, 10, 32} {
			got, err := idx.Query(query, d)
			require.NoError(t, err)
			want := bruteForce(raw, query, d)
			sort.Ints(got)
			sort.Ints(want)
			assert.Equal(t, want, got)
		}
	}
}

func TestQueryFindsBitFlippedNeighbor(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	idx := New()
	for i := 0; i < 100000; i++ {
		idx.Insert(Entry{Fingerprint: randomHash(rng)})
	}

	for trial := 0; trial < 100; trial++ {
		base := randomHash(rng)
		flipped := base
		bitsToFlip := make(map[int]bool)
		for len(bitsToFlip) < 20 {
			bitsToFlip[rng.Intn(256)] = true
		}
		for bit := range bitsToFlip {
			flipped.SetBit(bit)
		}
		n := idx.Insert(Entry{Fingerprint: base})

		matches, err := idx.Query(flipped, 20)
		require.NoError(t, err)

		found := false
		for _, m := range matches {
			if m == n {
				found = true
				break
			}
		}
		assert.True(t, found)

		for _, m := range matches {
			assert.LessOrEqual(t, hash256.Distance(flipped, idx.EntryAt(m).Fingerprint), 20)
		}
	}
}

func TestQueryTopKOrderedByDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	idx := New()
	for i := 0; i < 500; i++ {
		idx.Insert(Entry{Fingerprint: randomHash(rng)})
	}
	query := randomHash(rng)

	top, err := idx.QueryTopK(query, 256, 10)
	require.NoError(t, err)
	require.Len(t, top, 10)

	prev := -1
	for _, n := range top {
		d := hash256.Distance(query, idx.EntryAt(n).Fingerprint)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}

func TestNeighborhood16ContainsCenter(t *testing.T) {
	n := neighborhood16(0x1234, 2)
	found := false
	for _, v := range n {
		if v == 0x1234 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNeighborhood16RadiusZeroIsJustCenter(t *testing.T) {
	n := neighborhood16(0xABCD, 0)
	assert.Equal(t, []uint16{0xABCD}, n)
}
