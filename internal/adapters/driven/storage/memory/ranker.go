package memory

import (
	"sort"

	"github.com/viant/vec/search"
)

// scored pairs a stored position with its similarity to a query.
type scored struct {
	index int
	score float64
}

// magnitude returns the Euclidean norm of v.
func magnitude(v []float32) float32 {
	if len(v) == 0 {
		return 0
	}
	return search.Float32s(v).Magnitude()
}

// Cosine returns the cosine similarity of a and b, in [-1, 1].
// It is 0 when either vector has zero magnitude or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	return cosineWithMagnitude(a, b, magnitude(a), magnitude(b))
}

func cosineWithMagnitude(a, b []float32, magA, magB float32) float64 {
	if magA == 0 || magB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	// Magnitudes are summed in float32, so rounding can push the ratio
	// just past the unit interval.
	return max(-1, min(1, dot/(float64(magA)*float64(magB))))
}

// rank scores every vector whose dimension matches query and orders the
// positions by descending score. Equal scores keep insertion order.
func rank(query []float32, vectors [][]float32, magnitudes []float32) []scored {
	queryMag := magnitude(query)
	results := make([]scored, 0, len(vectors))

	for i, v := range vectors {
		if len(v) != len(query) {
			continue
		}
		results = append(results, scored{
			index: i,
			score: cosineWithMagnitude(query, v, queryMag, magnitudes[i]),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	return results
}
