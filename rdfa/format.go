package rdfa

import "io"

// Format identifies an input serialization.
type Format string

const (
	// FormatNTriples is line-based N-Triples input.
	FormatNTriples Format = "ntriples"
	// FormatJSONLD is JSON-LD input.
	FormatJSONLD Format = "jsonld"
)

// ReadGraph decodes all statements from r into a new Graph.
// base only affects formats with relative IRIs (JSON-LD).
func ReadGraph(r io.Reader, format Format, base string) (*Graph, error) {
	var (
		triples []Triple
		err     error
	)
	switch format {
	case FormatNTriples:
		triples, err = DecodeNTriples(r)
	case FormatJSONLD:
		triples, err = DecodeJSONLD(r, base)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	g := NewGraph()
	g.AddAll(triples)
	return g, nil
}
