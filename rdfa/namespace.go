package rdfa

import (
	"fmt"
	"sort"
	"strings"
)

// namespaceManager tracks the prefix table of one serialization session.
// Namespaces are registered incrementally as terms are encountered, so a
// prefix that had to be rewritten early (e.g. the reserved "_9") must keep
// the same rewrite even if a "real" use of the rewritten name shows up
// later. The rewrites map, keyed by the original prefix, makes that stable.
type namespaceManager struct {
	prefixes  map[string]string // prefix -> namespace
	byNS      map[string]string // namespace -> prefix
	rewrites  map[string]string // original prefix -> rewritten prefix
	preferred map[string]string // namespace -> preferred prefix
	autoSeq   int
}

func newNamespaceManager(preferred map[string]string) *namespaceManager {
	m := &namespaceManager{
		prefixes:  map[string]string{},
		byNS:      map[string]string{},
		rewrites:  map[string]string{},
		preferred: map[string]string{},
	}
	// Fixed base vocabulary prefixes. rdfs backs the fallback type term.
	m.preferred[RDFNS] = "rdf"
	m.preferred[RDFSNS] = "rdfs"
	for prefix, ns := range preferred {
		m.preferred[ns] = prefix
	}
	m.add("rdf", RDFNS)
	return m
}

// add registers a namespace under prefix and returns the prefix actually
// used. A prefix that is empty, starts with the reserved blank-node marker
// "_", or is already bound to a different namespace is rewritten by
// prepending "p" until the result is unused.
func (m *namespaceManager) add(prefix, namespace string) string {
	bound, taken := m.prefixes[prefix]
	if prefix == "" || prefix[0] == '_' || (taken && bound != namespace) {
		if _, ok := m.rewrites[prefix]; !ok {
			p := "p" + prefix
			for {
				if _, used := m.prefixes[p]; !used {
					break
				}
				p = "p" + p
			}
			m.rewrites[prefix] = p
		}
	}
	if rw, ok := m.rewrites[prefix]; ok {
		prefix = rw
	}
	m.prefixes[prefix] = namespace
	m.byNS[namespace] = prefix
	return prefix
}

// qname computes the compact name of term, registering its namespace as a
// side effect. It reports false if term is not an IRI, if the IRI cannot be
// split and is not itself a registered namespace, or if the local part
// contains a character that breaks CURIE serialization (notably ".").
func (m *namespaceManager) qname(term Term) (string, bool) {
	iri, ok := term.(IRI)
	if !ok {
		return "", false
	}
	ns, local, ok := splitIRI(iri.Value)
	if !ok {
		// The IRI may be a namespace in itself.
		if prefix, ok := m.byNS[iri.Value]; ok {
			return prefix + ":", true
		}
		return "", false
	}
	if prefix, ok := m.byNS[ns]; ok {
		return prefix + ":" + local, true
	}
	prefix, ok := m.preferred[ns]
	if !ok {
		prefix = fmt.Sprintf("ns%d", m.autoSeq)
		m.autoSeq++
	}
	prefix = m.add(prefix, ns)
	return prefix + ":" + local, true
}

// declaration is one xmlns attribute of the root element.
type declaration struct {
	prefix    string
	namespace string
}

// declarations returns the registered prefix table sorted by prefix.
func (m *namespaceManager) declarations() []declaration {
	decls := make([]declaration, 0, len(m.prefixes))
	for prefix, ns := range m.prefixes {
		decls = append(decls, declaration{prefix: prefix, namespace: ns})
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].prefix < decls[j].prefix })
	return decls
}

// splitIRI splits an IRI into namespace and local part at the last "#" or
// "/". It reports false when no split yields a usable CURIE local part.
func splitIRI(iri string) (ns, local string, ok bool) {
	idx := strings.LastIndexAny(iri, "#/")
	if idx <= 0 || idx+1 >= len(iri) {
		return "", "", false
	}
	ns = iri[:idx+1]
	local = iri[idx+1:]
	if !isCURIELocal(local) {
		return "", "", false
	}
	return ns, local, true
}

// isCURIELocal reports whether value is usable as the local part of a
// CURIE. Unlike XML NCNames, "." is rejected: a dot in the local part
// breaks the serialized form.
func isCURIELocal(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return true
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-'
}
