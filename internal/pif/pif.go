// Package pif implements the 256-bit perceptual image fingerprint
// transform: downscale, 2-D DCT, median-threshold bit derivation, the
// image-domain quality metric, and the seven cheap dihedral variants
// derived from the primary DCT block.
package pif

import (
	"github.com/JustinTDCT/pifindex/internal/downscale"
	"github.com/JustinTDCT/pifindex/internal/hash256"
)

// Hasher is the pluggable buffer-hashing capability named in spec.md's
// design notes, replacing the reference's virtual dispatch between
// buffer hashers with a single-method interface. PDQHasher is the one
// implementation this package ships.
type Hasher interface {
	HashBuffer(luma, scratch []float32, rows, cols int) (hash256.Hash256, int)
}

// PDQHasher computes the primary PIF hash and quality score from a
// caller-decoded luma plane.
type PDQHasher struct{}

// HashBuffer runs the downscale + DCT + threshold pipeline. luma and
// scratch must each hold rows*cols float32 samples; both are mutated as
// scratch space. Inputs smaller than downscale.MinHashableDim on either
// axis yield the cleared hash and quality 0, per spec.
func (PDQHasher) HashBuffer(luma, scratch []float32, rows, cols int) (hash256.Hash256, int) {
	if rows < downscale.MinHashableDim || cols < downscale.MinHashableDim {
		return hash256.Clear(), 0
	}
	grid := downscale.To64x64(luma, scratch, rows, cols)
	quality := imageDomainQualityMetric(grid)
	block := dct64To16(grid)
	return thresholdToHash(block), quality
}

// Result bundles a hash with its dihedral variant tag.
type Result struct {
	Variant Variant
	Hash    hash256.Hash256
}

// AllVariants is the full set of eight orientations, primary first.
var AllVariants = []Variant{Original, Rotate90, Rotate180, Rotate270, FlipX, FlipY, FlipPlus, FlipMinus}

// HashDihedral computes the primary hash plus any subset of the seven
// derived dihedral variants, sharing the one expensive DCT across all of
// them. variants may include or omit Original; the primary DCT block and
// the quality metric are always computed, and the primary hash is
// returned only when Original is requested. On inputs smaller than downscale.MinHashableDim, every
// requested hash is cleared and quality is zero.
func HashDihedral(luma, scratch []float32, rows, cols int, variants []Variant) ([]Result, int) {
	if rows < downscale.MinHashableDim || cols < downscale.MinHashableDim {
		out := make([]Result, len(variants))
		for i, v := range variants {
			out[i] = Result{Variant: v, Hash: hash256.Clear()}
		}
		return out, 0
	}

	grid := downscale.To64x64(luma, scratch, rows, cols)
	quality := imageDomainQualityMetric(grid)
	block := dct64To16(grid)

	out := make([]Result, len(variants))
	for i, v := range variants {
		derived := applyVariant(block, v)
		out[i] = Result{Variant: v, Hash: thresholdToHash(derived)}
	}
	return out, quality
}
