// Package fingerprint is the orchestration layer between raw corpus
// files on disk and the pif transform: it decodes images directly, pulls
// sampled frames out of videos via ffmpeg, and turns both into PIF
// hashes plus quality scores.
package fingerprint

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/JustinTDCT/pifindex/internal/downscale"
	"github.com/JustinTDCT/pifindex/internal/hash256"
	"github.com/JustinTDCT/pifindex/internal/pif"
)

// Result is one image's (or one video frame's) hash and quality.
type Result struct {
	Hash    hash256.Hash256
	Quality int
}

// FrameResult attaches Result to the sampled video frame it came from.
type FrameResult struct {
	Result
	FrameNumber int
	Timestamp   float64
}

// samplePoints are the percentage offsets into a video's duration where
// frames are pulled for hashing. Sampling several points catches edits
// that touch only part of a video, the way a single representative
// frame can't.
var samplePoints = []float64{0.05, 0.15, 0.30, 0.50, 0.70, 0.85, 0.95}

// Fingerprinter decodes corpus files and computes PIF hashes from them.
type Fingerprinter struct {
	ffmpegPath string
	hasher     pif.Hasher
}

// New builds a Fingerprinter that shells out to ffmpeg at ffmpegPath for
// video frame extraction.
func New(ffmpegPath string) *Fingerprinter {
	return &Fingerprinter{ffmpegPath: ffmpegPath, hasher: pif.PDQHasher{}}
}

// HashImageFile decodes an image file and computes its PIF hash.
func (f *Fingerprinter) HashImageFile(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}
	return f.hashImage(img)
}

func (f *Fingerprinter) hashImage(img image.Image) (Result, error) {
	luma, rows, cols := lumaFromImage(img)
	if rows < downscale.MinHashableDim || cols < downscale.MinHashableDim {
		return Result{Hash: hash256.Clear(), Quality: 0}, nil
	}
	scratch := make([]float32, rows*cols)
	h, q := f.hasher.HashBuffer(luma, scratch, rows, cols)
	return Result{Hash: h, Quality: q}, nil
}

// HashImageFileDihedral decodes path and returns its hash under every
// dihedral variant, sharing the one expensive DCT across all eight.
func (f *Fingerprinter) HashImageFileDihedral(path string) ([]pif.Result, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, 0, fmt.Errorf("decode image: %w", err)
	}

	luma, rows, cols := lumaFromImage(img)
	scratch := make([]float32, rows*cols)
	results, quality := pif.HashDihedral(luma, scratch, rows, cols, pif.AllVariants)
	return results, quality, nil
}

func lumaFromImage(img image.Image) (luma []float32, rows, cols int) {
	bounds := img.Bounds()
	rows, cols = bounds.Dy(), bounds.Dx()
	luma = make([]float32, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			luma[y*cols+x] = 0.299*float32(r>>8) + 0.587*float32(g>>8) + 0.114*float32(b>>8)
		}
	}
	return luma, rows, cols
}

// HashVideoFile samples frames from a video at samplePoints and returns
// one FrameResult per frame that could be extracted. Frames that fail to
// extract or decode are skipped rather than zero-filled, so the returned
// slice may be shorter than len(samplePoints).
func (f *Fingerprinter) HashVideoFile(path string, durationSec float64) ([]FrameResult, error) {
	tmpDir, err := os.MkdirTemp("", "pifindex-frames-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	var results []FrameResult
	for i, pct := range samplePoints {
		seekSec := pct * durationSec
		if seekSec <= 0 {
			seekSec = 0.1
		}
		if durationSec > 0 && seekSec >= durationSec {
			seekSec = durationSec - 0.1
		}

		framePath := filepath.Join(tmpDir, fmt.Sprintf("frame_%d.png", i))
		cmd := exec.Command(f.ffmpegPath,
			"-ss", fmt.Sprintf("%.3f", seekSec),
			"-i", path,
			"-vframes", "1",
			"-y",
			framePath,
		)
		if err := cmd.Run(); err != nil {
			continue
		}

		frameFile, err := os.Open(framePath)
		if err != nil {
			continue
		}
		img, _, err := image.Decode(frameFile)
		frameFile.Close()
		if err != nil {
			continue
		}

		res, err := f.hashImage(img)
		if err != nil {
			continue
		}
		results = append(results, FrameResult{Result: res, FrameNumber: i, Timestamp: seekSec})
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no frames could be extracted from %s", filepath.Base(path))
	}
	return results, nil
}
