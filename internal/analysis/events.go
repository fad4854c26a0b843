package analysis

import "math"

// Crossings returns the times at which values rises through threshold,
// linearly interpolated between samples.
func Crossings(times, values []float64, threshold float64) []float64 {
	n := min(len(times), len(values))
	out := make([]float64, 0)
	for i := 1; i < n; i++ {
		prev, curr := values[i-1], values[i]
		if prev >= threshold || curr < threshold {
			continue
		}
		frac := (threshold - prev) / (curr - prev)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
	}
	return out
}

// MeanPeriod averages the spacing of successive crossings. It returns 0
// with fewer than two crossings.
func MeanPeriod(crossings []float64) float64 {
	if len(crossings) < 2 {
		return 0
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
}

// Apexes returns the indices of strict local minima of values. With screen
// y this is the top of every bounce.
func Apexes(values []float64) []int {
	out := make([]int, 0)
	for i := 1; i+1 < len(values); i++ {
		if values[i] < values[i-1] && values[i] <= values[i+1] {
			out = append(out, i)
		}
	}
	return out
}
