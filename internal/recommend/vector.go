package recommend

import "math"

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different length, zero vectors and vectors with non-finite
// components have similarity 0. The result always lies in [-1, 1].
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	scaleA, scaleB := maxAbs(a), maxAbs(b)
	if scaleA == 0 || scaleB == 0 || math.IsInf(scaleA, 0) || math.IsInf(scaleB, 0) ||
		math.IsNaN(scaleA) || math.IsNaN(scaleB) {
		return 0
	}

	// Components are scaled into [-1, 1] so the sums neither overflow nor underflow.
	var dot, normA, normB float64
	for i := range a {
		x, y := a[i]/scaleA, b[i]/scaleB
		dot += x * y
		normA += x * x
		normB += y * y
	}
	return clamp(dot/(math.Sqrt(normA)*math.Sqrt(normB)), -1, 1)
}

// maxAbs returns the largest absolute component of v, or NaN if any component is NaN.
func maxAbs(v []float64) float64 {
	var m float64
	for _, x := range v {
		if math.IsNaN(x) {
			return math.NaN()
		}
		m = math.Max(m, math.Abs(x))
	}
	return m
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}
