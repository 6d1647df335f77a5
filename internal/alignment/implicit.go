package alignment

// Implicit returns range alignments between attributes of the same
// resource that have no explicit alignment in either direction. Two
// attributes are aligned when their paths share a leading prefix in which
// bound steps hold the same key and range steps the same start and
// stride; every range step of that prefix is paired with itself.
func Implicit(attrs Attributes, explicit []Alignment) []Alignment {
	related := make(map[edge]struct{}, 2*len(explicit))
	for _, a := range explicit {
		related[edge{a.Source, a.Target}] = struct{}{}
		related[edge{a.Target, a.Source}] = struct{}{}
	}

	var out []Alignment

	for i, a := range attrs {
		for _, b := range attrs[i+1:] {
			if a.Resource != b.Resource {
				continue
			}

			if _, ok := related[edge{a.ID, b.ID}]; ok {
				continue
			}

			if dims := sharedRangePrefix(a, b); len(dims) > 0 {
				out = append(out, Range(a.ID, b.ID, dims...))
			}
		}
	}

	return out
}

func sharedRangePrefix(a, b *Attribute) []DimPair {
	var dims []DimPair

	n := min(a.Path.Len(), b.Path.Len())

	for i := 0; i < n; i++ {
		sa, sb := a.Path.Steps[i], b.Path.Steps[i]
		if sa.Kind != sb.Kind {
			break
		}

		if !sa.IsNary() {
			if sa.Index != sb.Index {
				break
			}

			continue
		}

		if sa.Start != sb.Start || sa.Stride != sb.Stride {
			break
		}

		dims = append(dims, DimPair{Source: i, Target: i})
	}

	return dims
}
