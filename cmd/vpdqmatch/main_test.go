package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinTDCT/pifindex/internal/hash256"
)

func mustHash(t *testing.T, word0 uint16) hash256.Hash256 {
	t.Helper()
	var h hash256.Hash256
	h.SetWord(0, word0)
	return h
}

func TestCompareStreamsCountsMatchesStrictly(t *testing.T) {
	a := mustHash(t, 0x0000)
	bExact := mustHash(t, 0x0000)
	bOneBitOff := mustHash(t, 0x0001)

	frames1 := []frameHash{{frameNumber: 0, hash: a, quality: 90}, {frameNumber: 1, hash: a, quality: 90}}
	frames2 := []frameHash{{frameNumber: 0, hash: bExact, quality: 90}, {frameNumber: 1, hash: bOneBitOff, quality: 90}}

	matched, compared := compareStreams(frames1, frames2, 1, 0, false)
	assert.Equal(t, 2, compared)
	assert.Equal(t, 1, matched) // distance 0 < 1 matches, distance 1 < 1 does not
}

func TestCompareStreamsSkipsLowQuality(t *testing.T) {
	a := mustHash(t, 0x0000)
	frames1 := []frameHash{{frameNumber: 0, hash: a, quality: 5}}
	frames2 := []frameHash{{frameNumber: 0, hash: a, quality: 90}}

	matched, compared := compareStreams(frames1, frames2, 10, 50, false)
	assert.Equal(t, 0, compared)
	assert.Equal(t, 0, matched)
}

func TestLoadFramesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.txt")
	content := "0 " + mustHash(t, 1).Format() + " 90 0.500\n# comment\n\n1 " + mustHash(t, 2).Format() + " 80 1.200\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	frames, err := loadFrames(path)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 0, frames[0].frameNumber)
	assert.Equal(t, 90, frames[0].quality)
	assert.InDelta(t, 0.5, frames[0].timestamp, 0.001)
}

func TestLoadFramesMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.txt")
	require.NoError(t, os.WriteFile(path, []byte("not enough fields\n"), 0o644))

	_, err := loadFrames(path)
	assert.Error(t, err)
}
