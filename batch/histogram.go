package batch

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// autoBins picks a bin count the way numpy's "auto" rule does: the larger of
// the Sturges and Freedman-Diaconis estimates.
func autoBins(vals []float64) int {
	n := len(vals)
	if n < 2 {
		return 1
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	sturges := int(math.Ceil(math.Log2(float64(n)))) + 1
	iqr := stat.Quantile(0.75, stat.Empirical, sorted, nil) -
		stat.Quantile(0.25, stat.Empirical, sorted, nil)
	width := 2.0 * iqr / math.Cbrt(float64(n))
	span := sorted[n-1] - sorted[0]
	if width <= 0 || span <= 0 {
		return sturges
	}
	fd := int(math.Ceil(span / width))
	return max(fd, sturges)
}
