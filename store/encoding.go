package store

import (
	"encoding/binary"
	"fmt"

	"github.com/geoknoesis/rdfa-go/rdfa"
)

// Index identifies one of the key orderings triples are written under.
type Index byte

const (
	// SPO orders keys subject, predicate, object.
	SPO Index = 's'
	// OPS orders keys object, subject, predicate.
	OPS Index = 'o'
)

// Term wire format: one kind byte followed by uvarint length-prefixed
// fields. Length prefixes keep the encoding prefix-free, so a partially
// bound pattern encodes to a valid key prefix for range scans.
const (
	kindIRI     = 'i'
	kindBlank   = 'b'
	kindLiteral = 'l'
)

func appendTerm(buf []byte, t rdfa.Term) ([]byte, error) {
	switch v := t.(type) {
	case rdfa.IRI:
		buf = append(buf, kindIRI)
		buf = appendString(buf, v.Value)
	case rdfa.BlankNode:
		buf = append(buf, kindBlank)
		buf = appendString(buf, v.ID)
	case rdfa.Literal:
		buf = append(buf, kindLiteral)
		buf = appendString(buf, v.Lexical)
		buf = appendString(buf, v.Lang)
		buf = appendString(buf, v.Datatype.Value)
	default:
		return nil, fmt.Errorf("store: unsupported term type %T", t)
	}
	return buf, nil
}

func readTerm(data []byte) (rdfa.Term, []byte, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("store: truncated term")
	}
	kind := data[0]
	data = data[1:]
	switch kind {
	case kindIRI:
		value, rest, err := readString(data)
		if err != nil {
			return nil, nil, err
		}
		return rdfa.IRI{Value: value}, rest, nil
	case kindBlank:
		id, rest, err := readString(data)
		if err != nil {
			return nil, nil, err
		}
		return rdfa.BlankNode{ID: id}, rest, nil
	case kindLiteral:
		lexical, rest, err := readString(data)
		if err != nil {
			return nil, nil, err
		}
		lang, rest, err := readString(rest)
		if err != nil {
			return nil, nil, err
		}
		datatype, rest, err := readString(rest)
		if err != nil {
			return nil, nil, err
		}
		lit := rdfa.Literal{Lexical: lexical, Lang: lang}
		if datatype != "" {
			lit.Datatype = rdfa.IRI{Value: datatype}
		}
		return lit, rest, nil
	default:
		return nil, nil, fmt.Errorf("store: unknown term kind %q", kind)
	}
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func readString(data []byte) (string, []byte, error) {
	n, read := binary.Uvarint(data)
	if read <= 0 || uint64(len(data)-read) < n {
		return "", nil, fmt.Errorf("store: truncated string")
	}
	return string(data[read : read+int(n)]), data[read+int(n):], nil
}

// encodeKey builds the storage key of a triple under one index.
func encodeKey(index Index, t rdfa.Triple) ([]byte, error) {
	first, second, third := indexOrder(index, t.S, t.P, t.O)
	buf := []byte{byte(index)}
	var err error
	for _, term := range []rdfa.Term{first, second, third} {
		if buf, err = appendTerm(buf, term); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// decodeKey reconstructs the triple from a storage key.
func decodeKey(key []byte) (rdfa.Triple, error) {
	if len(key) == 0 {
		return rdfa.Triple{}, fmt.Errorf("store: empty key")
	}
	index := Index(key[0])
	terms := make([]rdfa.Term, 0, 3)
	rest := key[1:]
	for len(terms) < 3 {
		term, remaining, err := readTerm(rest)
		if err != nil {
			return rdfa.Triple{}, err
		}
		terms = append(terms, term)
		rest = remaining
	}
	var t rdfa.Triple
	switch index {
	case SPO:
		t = rdfa.Triple{S: terms[0], O: terms[2]}
		t.P, _ = terms[1].(rdfa.IRI)
	case OPS:
		t = rdfa.Triple{O: terms[0], S: terms[1]}
		t.P, _ = terms[2].(rdfa.IRI)
	default:
		return rdfa.Triple{}, fmt.Errorf("store: unknown index %q", byte(index))
	}
	if t.P.Value == "" {
		return rdfa.Triple{}, fmt.Errorf("store: predicate is not an IRI")
	}
	return t, nil
}

func indexOrder(index Index, s rdfa.Term, p rdfa.IRI, o rdfa.Term) (rdfa.Term, rdfa.Term, rdfa.Term) {
	if index == OPS {
		return o, s, p
	}
	return s, p, o
}

// scanPrefix encodes the bound leading terms of a pattern under index.
func scanPrefix(index Index, terms ...rdfa.Term) ([]byte, error) {
	buf := []byte{byte(index)}
	var err error
	for _, term := range terms {
		if term == nil {
			break
		}
		if buf, err = appendTerm(buf, term); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
