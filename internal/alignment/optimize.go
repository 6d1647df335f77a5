package alignment

// Optimize shortens a composed alignment list. Identical entries inside a
// longer chain are dropped and adjacent range alignments are merged into
// one by composing their dimension maps; a dimension whose step is not
// carried through both alignments is dropped.
func Optimize(aligns []Alignment) []Alignment {
	out := make([]Alignment, 0, len(aligns))

	for _, a := range aligns {
		if a.Kind == KindIdentical && len(aligns) > 1 {
			continue
		}

		if n := len(out); n > 0 && out[n-1].Kind == KindRange && a.Kind == KindRange {
			out[n-1] = mergeRange(out[n-1], a)
			continue
		}

		out = append(out, a)
	}

	if len(out) == 0 && len(aligns) > 0 {
		out = append(out, aligns[0])
	}

	return out
}

func mergeRange(a, b Alignment) Alignment {
	var dims []DimPair

	for _, pa := range a.Dims {
		for _, pb := range b.Dims {
			if pa.Target == pb.Source {
				dims = append(dims, DimPair{Source: pa.Source, Target: pb.Target})
			}
		}
	}

	return Range(a.Source, b.Target, dims...)
}
