package pif

// imageDomainQualityMetric sums the quantized absolute gradient between
// every horizontally and vertically adjacent pair of samples in the
// 64x64 downsample, then scales and clamps to [0, 100]. The truncation
// order — multiply by 100 first, divide by 255 in float32, then truncate
// each pair's result to int before summing — is load bearing: it must
// match the reference bit-for-bit, not just numerically.
func imageDomainQualityMetric(b [64][64]float32) int {
	gradientSum := 0

	for i := 0; i < 63; i++ {
		for j := 0; j < 64; j++ {
			u, v := b[i][j], b[i+1][j]
			d := int((u - v) * 100 / 255)
			if d < 0 {
				d = -d
			}
			gradientSum += d
		}
	}
	for i := 0; i < 64; i++ {
		for j := 0; j < 63; j++ {
			u, v := b[i][j], b[i][j+1]
			d := int((u - v) * 100 / 255)
			if d < 0 {
				d = -d
			}
			gradientSum += d
		}
	}

	quality := gradientSum / 90
	if quality > 100 {
		quality = 100
	}
	return quality
}
