package semantic

import (
	"slices"
	"sort"
)

// OrderClasses returns the class node ids in processing order, and the ids
// of the class-to-class edges deferred to make that order possible.
//
// A class linking to another class comes after it. When multiple classes
// are ready, the smallest node id goes first. When no class is ready, the
// lowest-id edge lying on a cycle among the remaining classes is deferred.
// Self links are always deferred.
func (m *Model) OrderClasses() ([]int, []int) {
	classes := m.Classes()

	pending := make(map[int]int, len(classes))
	dependents := make(map[int][]int, len(classes))

	var (
		active   []Edge
		deferred []int
	)

	for _, e := range m.Edges {
		if !m.IsClassEdge(e) {
			continue
		}

		if e.Source == e.Target {
			deferred = append(deferred, e.ID)
			continue
		}

		active = append(active, e)
		pending[e.Source]++
		dependents[e.Target] = append(dependents[e.Target], e.Source)
	}

	done := make(map[int]bool, len(classes))
	order := make([]int, 0, len(classes))

	var ready []int

	for _, c := range classes {
		if pending[c] == 0 {
			ready = append(ready, c)
		}
	}

	for len(order) < len(classes) {
		if len(ready) == 0 {
			e := m.cycleEdge(active, done, deferred)
			deferred = append(deferred, e.ID)

			pending[e.Source]--
			dependents[e.Target] = removeOnce(dependents[e.Target], e.Source)

			if pending[e.Source] == 0 {
				ready = insertSorted(ready, e.Source)
			}

			continue
		}

		c := ready[0]
		ready = ready[1:]

		order = append(order, c)
		done[c] = true

		for _, d := range dependents[c] {
			pending[d]--
			if pending[d] == 0 {
				ready = insertSorted(ready, d)
			}
		}
	}

	slices.Sort(deferred)

	return order, deferred
}

// cycleEdge returns the lowest-id edge between unfinished classes whose
// target can reach its source again.
func (m *Model) cycleEdge(active []Edge, done map[int]bool, deferred []int) Edge {
	live := make([]Edge, 0, len(active))

	for _, e := range active {
		if !done[e.Source] && !done[e.Target] && !slices.Contains(deferred, e.ID) {
			live = append(live, e)
		}
	}

	for _, e := range live {
		if reaches(live, e.Target, e.Source) {
			return e
		}
	}

	// Unreachable while some class is blocked: a blocked class always has
	// a live edge, and following live edges must loop.
	return live[0]
}

func reaches(edges []Edge, from, to int) bool {
	seen := map[int]bool{from: true}
	stack := []int{from}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n == to {
			return true
		}

		for _, e := range edges {
			if e.Source == n && !seen[e.Target] {
				seen[e.Target] = true
				stack = append(stack, e.Target)
			}
		}
	}

	return false
}

func insertSorted(s []int, v int) []int {
	k := sort.SearchInts(s, v)
	s = append(s, 0)
	copy(s[k+1:], s[k:])
	s[k] = v

	return s
}

func removeOnce(s []int, v int) []int {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(s, i, i+1)
	}

	return s
}
