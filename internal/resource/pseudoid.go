package resource

import (
	"strconv"
)

// PseudoID generates deterministic synthetic identifiers from a position.
// Only the nary coordinates take part: the same source position always
// yields the same id, and distinct positions yield distinct ids.
type PseudoID struct {
	prefix string
	dims   []int
	buf    []byte
}

// NewPseudoID returns a generator for positions of path, with ids
// starting with prefix.
func NewPseudoID(prefix string, path Path) *PseudoID {
	return &PseudoID{
		prefix: prefix,
		dims:   path.NaryDims(),
		buf:    make([]byte, 0, len(prefix)+16),
	}
}

// Prefix returns the id prefix.
func (p *PseudoID) Prefix() string {
	return p.prefix
}

// Of returns the synthetic id of pos.
func (p *PseudoID) Of(pos Position) string {
	b := append(p.buf[:0], p.prefix...)

	for i, d := range p.dims {
		if i == 0 {
			b = append(b, ':')
		} else {
			b = append(b, ',')
		}

		idx := pos[d]
		if idx.IsStr {
			b = strconv.AppendQuote(b, idx.Str)
		} else {
			b = strconv.AppendInt(b, int64(idx.Int), 10)
		}
	}

	p.buf = b

	return string(b)
}
