// Package rdfa serializes RDF graphs as RDFa fragments.
//
// The serializer turns a graph of statements, which may contain shared
// nodes, cycles and self-references, into a nested XHTML document in which
// each statement is one element: typeof/about blocks for subjects,
// property elements for literals, rel elements for resource-valued edges
// and inlist elements for RDF collections. For every edge it decides
// whether to inline the object as a nested block or emit a named
// reference, and it guarantees each subject is materialized exactly once
// per call.
//
// Example:
//
//	g := rdfa.NewGraph()
//	g.Add(rdfa.Triple{
//	    S: rdfa.IRI{Value: "http://example.org/alice"},
//	    P: rdfa.IRI{Value: "http://xmlns.com/foaf/0.1/name"},
//	    O: rdfa.Literal{Lexical: "Alice", Lang: "en"},
//	})
//	if err := rdfa.Serialize(os.Stdout, g); err != nil {
//	    // handle error
//	}
//
// The nesting level up to which objects are inlined is controlled by
// OptMaxDepth (default 3). A blank node referenced exactly once is inlined
// at its only point of use regardless of depth, since no other location in
// the tree can carry it.
//
// Graphs can be loaded from N-Triples or JSON-LD input via ReadGraph, or
// built programmatically. Serialize never mutates the graph; independent
// concurrent Serialize calls over one graph are safe, as each call owns
// its session state (visited set, prefix table) exclusively.
package rdfa
