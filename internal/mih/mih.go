// Package mih implements the Mutually-Indexed Hamming index: a
// radius-bounded nearest-neighbor index over 256-bit fingerprints that
// answers small-radius Hamming queries in sub-linear time by pigeonhole
// reasoning over 16 disjoint 16-bit slots.
package mih

import (
	"errors"
	"math/bits"
	"sort"

	"github.com/JustinTDCT/pifindex/internal/hash256"
)

// numSlots is the number of 16-bit slots a 256-bit fingerprint is
// partitioned into; it equals hash256.NumWords since each slot is
// exactly one word.
const numSlots = hash256.NumWords

// ErrBadRadius is returned by Query when the radius is outside [0, 256].
var ErrBadRadius = errors.New("mih: radius out of range")

// Entry is one inserted (fingerprint, metadata) pair. Entries are
// append-only: Index has no delete operation.
type Entry struct {
	Fingerprint hash256.Hash256
	Metadata    any
}

// Index is a single-owner, append-only MIH index. The zero value is not
// usable; construct with New. Concurrent insert and query on a single
// Index is not part of the contract — callers needing that should guard
// an Index with the sync.RWMutex pattern used by the repository layer
// that wraps this package, not rely on locking inside Index itself.
// Multiple independent Index instances may run concurrently with no
// coordination.
type Index struct {
	entries []Entry
	slots   [numSlots]map[uint16][]int32
}

// New constructs an empty index.
func New() *Index {
	idx := &Index{}
	for s := range idx.slots {
		idx.slots[s] = make(map[uint16][]int32)
	}
	return idx
}

// Len returns the number of inserted entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// EntryAt returns the entry at insertion index n.
func (idx *Index) EntryAt(n int) Entry {
	return idx.entries[n]
}

// Insert appends entry e and adds it to each of the 16 slot bins. It
// returns e's insertion index. Every inserted entry appears in exactly
// 16 slot bins, once per position, per the invariant in spec.md §3.
func (idx *Index) Insert(e Entry) int {
	n := int32(len(idx.entries))
	idx.entries = append(idx.entries, e)
	for s := 0; s < numSlots; s++ {
		key := e.Fingerprint.Word(s)
		idx.slots[s][key] = append(idx.slots[s][key], n)
	}
	return int(n)
}

// neighborhood16 returns every 16-bit value within Hamming distance r of
// center, including center itself when r >= 0. It enumerates by XORing
// center with every bitmask of popcount 0..r, which for the typical
// working range r=2 visits C(16,0)+C(16,1)+C(16,2) = 137 values.
func neighborhood16(center uint16, r int) []uint16 {
	if r > 16 {
		r = 16
	}
	out := []uint16{center}
	if r == 0 {
		return out
	}
	for mask := uint32(1); mask < 1<<16; mask++ {
		if bits.OnesCount32(mask) > r {
			continue
		}
		out = append(out, center^uint16(mask))
	}
	return out
}

// Query returns every entry index within Hamming distance d of q,
// ordered by ascending insertion index. d must be in [0, 256] or
// ErrBadRadius is returned.
//
// The correctness argument (spec.md §4.4): if two 256-bit codes differ
// in at most d bits, then partitioned into 16 disjoint 16-bit slots, by
// pigeonhole at least one slot differs in at most floor(d/16) bits. So
// for each slot position we enumerate every 16-bit value within
// floor(d/16) of q's value at that slot, union the candidate index sets
// across all 16 positions, de-duplicate, and verify each candidate with
// a full 256-bit distance check.
func (idx *Index) Query(q hash256.Hash256, d int) ([]int, error) {
	if d < 0 || d > 256 {
		return nil, ErrBadRadius
	}

	r := d / numSlots

	seen := make(map[int32]struct{})
	var candidates []int32
	for s := 0; s < numSlots; s++ {
		for _, key := range neighborhood16(q.Word(s), r) {
			for _, n := range idx.slots[s][key] {
				if _, ok := seen[n]; ok {
					continue
				}
				seen[n] = struct{}{}
				candidates = append(candidates, n)
			}
		}
	}

	var matches []int
	for _, n := range candidates {
		if hash256.Distance(q, idx.entries[n].Fingerprint) <= d {
			matches = append(matches, int(n))
		}
	}
	sort.Ints(matches)
	return matches, nil
}

// QueryTopK returns at most k matches within radius d, ordered by
// ascending Hamming distance (ties broken by insertion order). This is
// the ascending-distance variant spec.md §4.4 permits in addition to the
// base insertion-order contract implemented by Query.
func (idx *Index) QueryTopK(q hash256.Hash256, d, k int) ([]int, error) {
	matches, err := idx.Query(q, d)
	if err != nil {
		return nil, err
	}
	type scored struct {
		idx  int
		dist int
	}
	sc := make([]scored, len(matches))
	for i, n := range matches {
		sc[i] = scored{idx: n, dist: hash256.Distance(q, idx.entries[n].Fingerprint)}
	}
	sort.SliceStable(sc, func(i, j int) bool { return sc[i].dist < sc[j].dist })
	if k > len(sc) {
		k = len(sc)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = sc[i].idx
	}
	return out, nil
}
