package pcmwav

import "math"

const scaleInt16 = 32768.0

// FloatToInt16 converts a normalized sample in [-1, 1] to 16-bit PCM.
// Values outside the range are clipped.
func FloatToInt16(v float64) int16 {
	v = clampFloat64(v, -1, 1)

	sample := min(int64(math.Round(v*scaleInt16)), math.MaxInt16)
	if sample < math.MinInt16 {
		sample = math.MinInt16
	}

	return int16(sample)
}

// Int16ToFloat normalizes a 16-bit PCM sample to [-1, 1).
func Int16ToFloat(s int16) float64 {
	return float64(s) / scaleInt16
}

// FloatsToInt16 converts a slice of normalized samples, appending to dst.
func FloatsToInt16(dst []int16, src []float64) []int16 {
	for _, v := range src {
		dst = append(dst, FloatToInt16(v))
	}

	return dst
}

func clampFloat64(value, lo, hi float64) float64 {
	if math.IsNaN(value) {
		return 0
	}

	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}
