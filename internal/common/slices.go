package common

// IsSingle returns true if the slice has exactly one element.
func IsSingle[S ~[]E, E any](s S) bool {
	return len(s) == 1
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// Duplicates returns the keys of s that occur more than once, each once,
// in order of their second occurrence.
func Duplicates[S ~[]E, E any, K comparable](s S, key func(E) K) []K {
	seen := make(map[K]int, len(s))

	var dups []K

	for _, e := range s {
		k := key(e)

		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}

	return dups
}
