package fingerprint

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkerboard(rows, cols int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := uint8(0)
			if (x/8+y/8)%2 == 0 {
				v = 255
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestHashImageDeterministic(t *testing.T) {
	f := New("ffmpeg")
	img := checkerboard(256, 256)

	r1, err := f.hashImage(img)
	require.NoError(t, err)
	r2, err := f.hashImage(img)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Greater(t, r1.Quality, 0)
}

func TestHashImageTooSmallCleared(t *testing.T) {
	f := New("ffmpeg")
	img := image.NewGray(image.Rect(0, 0, 3, 3))

	r, err := f.hashImage(img)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Hash.PopCount())
	assert.Equal(t, 0, r.Quality)
}

func TestHashImageUniformZeroQuality(t *testing.T) {
	f := New("ffmpeg")
	img := image.NewGray(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			img.SetGray(x, y, color.Gray{Y: 200})
		}
	}

	r, err := f.hashImage(img)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Quality)
}
