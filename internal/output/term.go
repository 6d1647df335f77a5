package output

import (
	"strings"

	"github.com/google/uuid"

	"semantic-mapper/internal/common"
	"semantic-mapper/internal/resource"
	"semantic-mapper/internal/semantic"
)

// RDFType is the predicate linking a record to its class type.
const RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// TermKind is the kind of an RDF term.
type TermKind int

const (
	IRI TermKind = iota
	Blank
	Literal
)

// String returns a human-readable term kind.
func (k TermKind) String() string {
	switch k {
	case IRI:
		return "iri"
	case Blank:
		return "blank"
	case Literal:
		return "literal"
	default:
		return common.UnknownStr
	}
}

// Term is a node or a literal of the output graph.
type Term struct {
	Kind  TermKind
	Value string
	// DataType is the datatype IRI of typed literals.
	DataType string
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// String returns the N-Triples form of the term.
func (t Term) String() string {
	switch t.Kind {
	case IRI:
		return "<" + t.Value + ">"
	case Blank:
		return "_:" + t.Value
	default:
		lit := `"` + literalEscaper.Replace(t.Value) + `"`
		if t.DataType != "" {
			lit += "^^<" + t.DataType + ">"
		}

		return lit
	}
}

// Triple is a statement of the output graph.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// String returns the N-Triples line of the triple, without newline.
func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// blankNamespace scopes the name-based UUIDs of blank node labels.
var blankNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:semantic-mapper:blank"))

// BlankLabel returns the stable blank node label of a synthetic id.
func BlankLabel(id string) string {
	u := uuid.NewSHA1(blankNamespace, []byte(id))

	return "b" + strings.ReplaceAll(u.String(), "-", "")
}

// terms renders model ids as RDF terms.
type terms struct {
	model *semantic.Model
}

func (t terms) node(id string, synthetic bool) Term {
	if synthetic {
		return Term{Kind: Blank, Value: BlankLabel(id)}
	}

	return Term{Kind: IRI, Value: t.model.Expand(id)}
}

func (t terms) predicate(id int) Term {
	return Term{Kind: IRI, Value: t.model.Expand(t.model.Predicate(id))}
}

func (t terms) literal(v resource.Value, dataType string) Term {
	lit := Term{Kind: Literal, Value: v.String()}
	if dataType != "" {
		lit.DataType = t.model.Expand(dataType)
	}

	return lit
}

// classType returns the type triple object of a class, if it has one.
func (t terms) classType(class int) (Term, bool) {
	typ := t.model.Nodes[class].Type
	if typ == "" {
		return Term{}, false
	}

	return Term{Kind: IRI, Value: t.model.Expand(typ)}, true
}
