package rdfa

import (
	"strings"

	"github.com/google/uuid"
)

// PredicateObject is one outgoing edge of a subject.
type PredicateObject struct {
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
}

// Source is the read-only view of a graph the serializer consumes.
// A nil subject/predicate/object argument is a wildcard. Implementations
// must not change while a serialization call is in progress.
type Source interface {
	// Subjects returns the distinct subjects of the graph.
	Subjects() []Term
	// PredicateObjects returns the outgoing edges of a subject.
	PredicateObjects(subject Term) []PredicateObject
	// Objects returns the objects of statements matching (subject, predicate).
	Objects(subject Term, predicate IRI) []Term
	// Any reports whether any statement matches the pattern.
	Any(subject, predicate, object Term) bool
	// Count returns the number of statements matching the pattern.
	Count(subject, predicate, object Term) int
}

// Graph is an in-memory statement collection. Statements are de-duplicated:
// adding the same triple twice leaves the graph unchanged.
//
// Graph is not safe for concurrent mutation, but any number of concurrent
// serializations may read from one Graph as long as nothing mutates it.
type Graph struct {
	triples   []Triple
	subjects  []Term
	bySubject map[string][]int
	objRefs   map[string]int
	seen      map[string]bool
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		bySubject: map[string][]int{},
		objRefs:   map[string]int{},
		seen:      map[string]bool{},
	}
}

// Add inserts a triple into the graph. Duplicate triples are ignored.
func (g *Graph) Add(t Triple) {
	if t.S == nil || t.P.Value == "" || t.O == nil {
		return
	}
	key := termKey(t.S) + "\x00" + t.P.Value + "\x00" + termKey(t.O)
	if g.seen[key] {
		return
	}
	g.seen[key] = true
	sk := termKey(t.S)
	if _, ok := g.bySubject[sk]; !ok {
		g.subjects = append(g.subjects, t.S)
	}
	g.bySubject[sk] = append(g.bySubject[sk], len(g.triples))
	g.objRefs[termKey(t.O)]++
	g.triples = append(g.triples, t)
}

// AddAll inserts all triples into the graph.
func (g *Graph) AddAll(triples []Triple) {
	for _, t := range triples {
		g.Add(t)
	}
}

// Len returns the number of distinct statements in the graph.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns all statements in insertion order. The returned slice is
// shared with the graph and must not be modified.
func (g *Graph) Triples() []Triple { return g.triples }

// NewBlankNode mints a blank node with a fresh identifier.
func (g *Graph) NewBlankNode() BlankNode {
	return BlankNode{ID: "b" + strings.ReplaceAll(uuid.NewString(), "-", "")}
}

// Subjects returns the distinct subjects in first-seen order.
func (g *Graph) Subjects() []Term {
	return g.subjects
}

// PredicateObjects returns the outgoing edges of subject in insertion order.
func (g *Graph) PredicateObjects(subject Term) []PredicateObject {
	idxs := g.bySubject[termKey(subject)]
	if len(idxs) == 0 {
		return nil
	}
	pairs := make([]PredicateObject, 0, len(idxs))
	for _, i := range idxs {
		pairs = append(pairs, PredicateObject{P: g.triples[i].P, O: g.triples[i].O})
	}
	return pairs
}

// Objects returns the objects of statements with the given subject and predicate.
func (g *Graph) Objects(subject Term, predicate IRI) []Term {
	var out []Term
	for _, i := range g.bySubject[termKey(subject)] {
		if g.triples[i].P.Value == predicate.Value {
			out = append(out, g.triples[i].O)
		}
	}
	return out
}

// Any reports whether any statement matches the pattern.
func (g *Graph) Any(subject, predicate, object Term) bool {
	if subject != nil {
		for _, i := range g.bySubject[termKey(subject)] {
			if matchTerm(predicate, g.triples[i].P) && matchTerm(object, g.triples[i].O) {
				return true
			}
		}
		return false
	}
	if predicate == nil && object != nil {
		return g.objRefs[termKey(object)] > 0
	}
	for _, t := range g.triples {
		if matchTerm(predicate, t.P) && matchTerm(object, t.O) {
			return true
		}
	}
	return false
}

// Count returns the number of statements matching the pattern.
func (g *Graph) Count(subject, predicate, object Term) int {
	if subject == nil && predicate == nil && object != nil {
		return g.objRefs[termKey(object)]
	}
	n := 0
	for _, t := range g.triples {
		if subject != nil && termKey(subject) != termKey(t.S) {
			continue
		}
		if matchTerm(predicate, t.P) && matchTerm(object, t.O) {
			n++
		}
	}
	return n
}

func matchTerm(pattern, t Term) bool {
	return pattern == nil || termKey(pattern) == termKey(t)
}
