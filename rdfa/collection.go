package rdfa

// collection is the derived view over an RDF list: the chain of nodes
// linked by rdf:rest starting at head, and the rdf:first item of each.
// It is computed on demand and never stored.
type collection struct {
	nodes []Term // chain cells, head first
	items []Term // rdf:first of each cell, in chain order
}

// flattenCollection walks the rdf:first/rdf:rest chain from head and
// returns the items in chain order together with the cells visited along
// the way. A malformed chain that loops back on itself terminates at the
// first repeated cell.
func flattenCollection(g Source, head Term) collection {
	var col collection
	walked := map[string]bool{}
	node := head
	for node != nil {
		if iri, ok := node.(IRI); ok && iri.Value == RDFNil.Value {
			break
		}
		key := termKey(node)
		if walked[key] {
			break
		}
		walked[key] = true
		col.nodes = append(col.nodes, node)
		if firsts := g.Objects(node, RDFFirst); len(firsts) > 0 {
			col.items = append(col.items, firsts[0])
		}
		rests := g.Objects(node, RDFRest)
		if len(rests) == 0 {
			break
		}
		node = rests[0]
	}
	return col
}

// strayStatements counts statements asserted on the chain cells beyond the
// rdf:first/rdf:rest links themselves. Such assertions (including the
// list's own rdf:type) cannot be represented in the flattened form.
func (c collection) strayStatements(g Source) int {
	stray := 0
	for _, node := range c.nodes {
		for _, po := range g.PredicateObjects(node) {
			switch po.P.Value {
			case RDFFirst.Value, RDFRest.Value:
			default:
				stray++
			}
		}
	}
	return stray
}
