package watcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyImage(t *testing.T) {
	kind, ok := classify("/corpus/photos/beach.JPG")
	assert.True(t, ok)
	assert.Equal(t, KindImage, kind)
}

func TestClassifyVideo(t *testing.T) {
	kind, ok := classify("/corpus/clips/intro.mkv")
	assert.True(t, ok)
	assert.Equal(t, KindVideo, kind)
}

func TestClassifyUnknownExtension(t *testing.T) {
	_, ok := classify("/corpus/notes.txt")
	assert.False(t, ok)
}
