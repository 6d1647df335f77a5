package match

import (
	"cmp"
	"slices"
)

// MinSimilarity is the score below which a name is not suggested.
const MinSimilarity = 0.5

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit names from known that are close to name,
// best first. Ties keep the order of known.
func Suggest(name string, known []string, limit int) []string {
	var candidates []scored

	for _, k := range known {
		if s := Similarity(name, k); s >= MinSimilarity {
			candidates = append(candidates, scored{name: k, score: s})
		}
	}

	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}

	return out
}
