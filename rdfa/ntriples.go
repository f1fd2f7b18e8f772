package rdfa

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// NTriplesDecoder is a pull-style decoder for N-Triples input.
type NTriplesDecoder struct {
	reader *bufio.Reader
	line   int
	err    error
}

// NewNTriplesDecoder returns a decoder reading N-Triples from r.
func NewNTriplesDecoder(r io.Reader) *NTriplesDecoder {
	return &NTriplesDecoder{reader: bufio.NewReader(r)}
}

// Next returns the next triple, or io.EOF after the last one.
func (d *NTriplesDecoder) Next() (Triple, error) {
	if d.err != nil {
		return Triple{}, d.err
	}
	for {
		line, err := d.readLine()
		if err != nil {
			if err == io.EOF {
				return Triple{}, io.EOF
			}
			d.err = err
			return Triple{}, err
		}
		d.line++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		triple, err := parseNTLine(trimmed)
		if err != nil {
			d.err = wrapParseError("ntriples", trimmed, d.line, err)
			return Triple{}, d.err
		}
		return triple, nil
	}
}

func (d *NTriplesDecoder) readLine() (string, error) {
	line, err := d.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

// DecodeNTriples reads all triples from r.
func DecodeNTriples(r io.Reader) ([]Triple, error) {
	dec := NewNTriplesDecoder(r)
	var triples []Triple
	for {
		triple, err := dec.Next()
		if err == io.EOF {
			return triples, nil
		}
		if err != nil {
			return nil, err
		}
		triples = append(triples, triple)
	}
}

func parseNTLine(line string) (Triple, error) {
	cursor := &ntCursor{input: line}
	subject, err := cursor.parseSubject()
	if err != nil {
		return Triple{}, err
	}
	predicate, err := cursor.parseIRI()
	if err != nil {
		return Triple{}, err
	}
	object, err := cursor.parseObject()
	if err != nil {
		return Triple{}, err
	}
	cursor.skipWS()
	if !cursor.consume('.') {
		return Triple{}, cursor.errorf("expected '.' at end of statement")
	}
	return Triple{S: subject, P: predicate, O: object}, nil
}

type ntCursor struct {
	input string
	pos   int
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseSubject() (Term, error) {
	c.skipWS()
	return c.parseTerm(false)
}

func (c *ntCursor) parseObject() (Term, error) {
	c.skipWS()
	return c.parseTerm(true)
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		iri, err := c.parseIRI()
		return iri, err
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token")
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	c.skipWS()
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		c.pos++
	}
	if c.pos >= len(c.input) {
		return IRI{}, c.errorf("unterminated IRI")
	}
	value := c.input[start:c.pos]
	c.pos++
	return IRI{Value: value}, nil
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.skipWS()
	if !strings.HasPrefix(c.input[c.pos:], "_:") {
		return BlankNode{}, c.errorf("expected blank node")
	}
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node id missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	c.skipWS()
	if !c.consume('"') {
		return Literal{}, c.errorf("expected literal")
	}
	var builder strings.Builder
	closed := false
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '"' {
			c.pos++
			closed = true
			break
		}
		if ch == '\\' {
			if c.pos+1 >= len(c.input) {
				return Literal{}, c.errorf("unterminated escape")
			}
			next := c.input[c.pos+1]
			switch next {
			case 'n':
				builder.WriteByte('\n')
			case 't':
				builder.WriteByte('\t')
			case 'r':
				builder.WriteByte('\r')
			case '"':
				builder.WriteByte('"')
			case '\\':
				builder.WriteByte('\\')
			default:
				builder.WriteByte(next)
			}
			c.pos += 2
			continue
		}
		builder.WriteByte(ch)
		c.pos++
	}
	if !closed {
		return Literal{}, c.errorf("unterminated literal")
	}
	lexical := builder.String()
	c.skipWS()
	if strings.HasPrefix(c.input[c.pos:], "@") {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
			c.pos++
		}
		return Literal{Lexical: lexical, Lang: c.input[start:c.pos]}, nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	}
	return Literal{Lexical: lexical}, nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("ntriples: "+format, args...)
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '.':
		return true
	default:
		return false
	}
}
