package alignment

import (
	"slices"
	"sort"
)

type edge struct {
	from int
	to   int
}

// Inference is the relation graph between attributes. An edge x->z holds
// the alignment list that maps positions of x to positions of z.
type Inference struct {
	attrs Attributes
	edges map[edge][]Alignment
	// out holds the sorted successors of each attribute.
	out [][]int
}

// NewInference seeds the graph with self alignments, the given alignments
// and their inverses. The first alignment given for a pair wins.
func NewInference(attrs Attributes, aligns []Alignment) *Inference {
	inf := &Inference{
		attrs: attrs,
		edges: make(map[edge][]Alignment, len(attrs)+2*len(aligns)),
		out:   make([][]int, len(attrs)),
	}

	for id := range attrs {
		inf.add(id, id, []Alignment{Identical(id)})
	}

	for _, a := range aligns {
		inf.add(a.Source, a.Target, []Alignment{a})
		inf.add(a.Target, a.Source, []Alignment{a.Swap()})
	}

	return inf
}

// Attributes returns the attribute set of the graph.
func (inf *Inference) Attributes() Attributes {
	return inf.attrs
}

// Infer runs sweeps until one adds no edge and returns the number of
// edges added in total. Single-valued chains are composed to a fixed point
// first, so a functional relation wins over a fan-out one between the same
// attributes.
func (inf *Inference) Infer() int {
	total := 0

	for _, singleOnly := range []bool{true, false} {
		for {
			added := inf.sweep(singleOnly)
			if added == 0 {
				break
			}

			total += added
		}
	}

	return total
}

// Sweep walks the graph depth first from every attribute and composes a
// chain for each attribute reached through a known neighbour but not yet
// related directly. A chain that cannot be composed prunes the walk below
// that attribute, which stays reachable through other paths.
func (inf *Inference) Sweep() int {
	return inf.sweep(false)
}

func (inf *Inference) sweep(singleOnly bool) int {
	added := 0
	visited := make([]bool, len(inf.attrs))

	for x0 := range inf.attrs {
		clear(visited)

		added += inf.walk(x0, x0, visited, singleOnly)
	}

	return added
}

func (inf *Inference) walk(x0, x1 int, visited []bool, singleOnly bool) int {
	visited[x1] = true
	added := 0

	for _, x2 := range slices.Clone(inf.out[x1]) {
		if visited[x2] {
			continue
		}

		if _, ok := inf.edges[edge{x0, x2}]; !ok {
			chain, ok := inf.compose(inf.edges[edge{x0, x1}], inf.edges[edge{x1, x2}])
			if !ok || singleOnly && !inf.Estimate(chain).IsSingle() {
				continue
			}

			inf.add(x0, x2, chain)
			added++
		}

		added += inf.walk(x0, x2, visited, singleOnly)
	}

	return added
}

func (inf *Inference) compose(f, g []Alignment) ([]Alignment, bool) {
	if !Chainable(Estimate(inf.attrs, f), Estimate(inf.attrs, g)) {
		return nil, false
	}

	chain := make([]Alignment, 0, len(f)+len(g))
	chain = append(chain, f...)
	chain = append(chain, g...)

	return Optimize(chain), true
}

func (inf *Inference) add(from, to int, aligns []Alignment) {
	key := edge{from, to}
	if _, ok := inf.edges[key]; ok {
		return
	}

	inf.edges[key] = aligns

	succ := inf.out[from]
	k := sort.SearchInts(succ, to)
	succ = append(succ, 0)
	copy(succ[k+1:], succ[k:])
	succ[k] = to
	inf.out[from] = succ
}

// Get returns the alignment list from x to z.
func (inf *Inference) Get(x, z int) ([]Alignment, bool) {
	aligns, ok := inf.edges[edge{x, z}]

	return aligns, ok
}

// Cardinality estimates the cardinality of the relation from x to z.
func (inf *Inference) Cardinality(x, z int) (Cardinality, bool) {
	aligns, ok := inf.edges[edge{x, z}]
	if !ok {
		return 0, false
	}

	return Estimate(inf.attrs, aligns), true
}

// Estimate folds the cardinality of an alignment list.
func (inf *Inference) Estimate(aligns []Alignment) Cardinality {
	return Estimate(inf.attrs, aligns)
}

// Successors returns the attributes x is related to, in id order.
func (inf *Inference) Successors(x int) []int {
	return inf.out[x]
}

// Len returns the number of known edges, self alignments included.
func (inf *Inference) Len() int {
	return len(inf.edges)
}
