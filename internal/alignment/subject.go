package alignment

import "slices"

// InferSubject picks the attribute that can serve as the identity of a
// record type whose data attributes are attrs.
//
// An attribute of the record type qualifies when each of its positions
// reaches at most one position of every sibling (O2O or M2O).
// When none qualifies, attributes outside the record type are tried: they
// must reach every sibling through exactly one duplicate-free range
// alignment whose source dimensions cover all of their own range steps.
// Among candidates, preferred wins if it qualifies, then the lowest id.
// The second result is false when no attribute qualifies.
func (inf *Inference) InferSubject(attrs []int, preferred int) (int, bool) {
	internal := inf.candidates(attrs, attrs, inf.isInternalSubject)
	if len(internal) > 0 {
		return pick(internal, preferred), true
	}

	outside := make([]int, 0, len(inf.attrs))
	for id := range inf.attrs {
		if !slices.Contains(attrs, id) {
			outside = append(outside, id)
		}
	}

	external := inf.candidates(outside, attrs, inf.isExternalSubject)
	if len(external) > 0 {
		return pick(external, preferred), true
	}

	return -1, false
}

// IsExternalSubject reports whether s can identify the records of a type
// whose data attributes are attrs without belonging to them.
func (inf *Inference) IsExternalSubject(s int, attrs []int) bool {
	return inf.isExternalSubject(s, attrs)
}

func (inf *Inference) candidates(pool, siblings []int, ok func(int, []int) bool) []int {
	var out []int

	for _, s := range pool {
		if ok(s, siblings) {
			out = append(out, s)
		}
	}

	slices.Sort(out)

	return out
}

func (inf *Inference) isInternalSubject(s int, siblings []int) bool {
	for _, p := range siblings {
		if p == s {
			continue
		}

		c, ok := inf.Cardinality(s, p)
		if !ok || !c.IsSingle() {
			return false
		}
	}

	return true
}

func (inf *Inference) isExternalSubject(s int, siblings []int) bool {
	covered := make(map[int]struct{})

	for _, p := range siblings {
		aligns, ok := inf.Get(s, p)
		if !ok || len(aligns) != 1 || aligns[0].Kind != KindRange {
			return false
		}

		if !Of(inf.attrs, aligns[0]).IsDuplicateFree() {
			return false
		}

		for _, d := range aligns[0].Dims {
			covered[d.Source] = struct{}{}
		}
	}

	for _, d := range inf.attrs[s].NaryDims() {
		if _, ok := covered[d]; !ok {
			return false
		}
	}

	return true
}

func pick(candidates []int, preferred int) int {
	if preferred >= 0 && slices.Contains(candidates, preferred) {
		return preferred
	}

	return candidates[0]
}
