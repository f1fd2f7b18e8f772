package rdfa

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

const (
	xsdString     = "http://www.w3.org/2001/XMLSchema#string"
	rdfLangString = RDFNS + "langString"
)

// DecodeJSONLD parses a JSON-LD document from r and returns the triples of
// its default graph. Named graphs are ignored; base resolves relative IRIs.
func DecodeJSONLD(r io.Reader, base string) ([]Triple, error) {
	var doc interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, wrapParseError("jsonld", "", 0, err)
	}
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions(base)
	result, err := proc.ToRDF(doc, opts)
	if err != nil {
		return nil, wrapParseError("jsonld", "", 0, err)
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}
	var triples []Triple
	for _, quad := range dataset.Graphs["@default"] {
		triple, err := quadToTriple(quad)
		if err != nil {
			return nil, err
		}
		triples = append(triples, triple)
	}
	return triples, nil
}

func quadToTriple(quad *ld.Quad) (Triple, error) {
	subject, err := nodeToTerm(quad.Subject)
	if err != nil {
		return Triple{}, err
	}
	predicate, err := nodeToTerm(quad.Predicate)
	if err != nil {
		return Triple{}, err
	}
	predIRI, ok := predicate.(IRI)
	if !ok {
		return Triple{}, fmt.Errorf("jsonld: predicate %s is not an IRI", predicate)
	}
	object, err := nodeToTerm(quad.Object)
	if err != nil {
		return Triple{}, err
	}
	return Triple{S: subject, P: predIRI, O: object}, nil
}

func nodeToTerm(node ld.Node) (Term, error) {
	switch n := node.(type) {
	case *ld.IRI:
		return IRI{Value: n.Value}, nil
	case *ld.BlankNode:
		return BlankNode{ID: strings.TrimPrefix(n.Attribute, "_:")}, nil
	case *ld.Literal:
		lit := Literal{Lexical: n.Value}
		switch {
		case n.Language != "":
			lit.Lang = n.Language
		case n.Datatype != "" && n.Datatype != xsdString && n.Datatype != rdfLangString:
			lit.Datatype = IRI{Value: n.Datatype}
		}
		return lit, nil
	default:
		return nil, fmt.Errorf("jsonld: unsupported node type %T", node)
	}
}
