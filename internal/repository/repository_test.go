package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinTDCT/pifindex/internal/hash256"
	"github.com/JustinTDCT/pifindex/internal/mih"
)

func newTestRepo() *Repository {
	return &Repository{idx: mih.New()}
}

func sampleHash(word0 uint16) hash256.Hash256 {
	var h hash256.Hash256
	h.SetWord(0, word0)
	return h
}

func TestSearchOrdersByDistance(t *testing.T) {
	r := newTestRepo()

	close := Record{ID: uuid.New(), Fingerprint: sampleHash(0x0001), SourcePath: "close.jpg", MediaKind: MediaImage, CreatedAt: time.Now()}
	far := Record{ID: uuid.New(), Fingerprint: sampleHash(0x00FF), SourcePath: "far.jpg", MediaKind: MediaImage, CreatedAt: time.Now()}

	r.idx.Insert(mih.Entry{Fingerprint: close.Fingerprint, Metadata: close})
	r.idx.Insert(mih.Entry{Fingerprint: far.Fingerprint, Metadata: far})

	matches, err := r.Search(hash256.Clear(), 32)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.LessOrEqual(t, matches[0].Distance, matches[1].Distance)
	assert.Equal(t, "close.jpg", matches[0].Record.SourcePath)
}

func TestSearchEmptyIndexReturnsNoMatches(t *testing.T) {
	r := newTestRepo()
	matches, err := r.Search(hash256.Clear(), 16)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestLenReflectsInsertedRecords(t *testing.T) {
	r := newTestRepo()
	assert.Equal(t, 0, r.Len())

	r.idx.Insert(mih.Entry{Fingerprint: sampleHash(1), Metadata: Record{SourcePath: "a.jpg"}})
	assert.Equal(t, 1, r.Len())
}
