package rdfa

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultMaxDepth is the default inline/reference threshold.
const DefaultMaxDepth = 3

// maxInlineDepth is the hard ceiling on nested subject blocks. The
// single-reference blank-node rule is exempt from MaxDepth, so a chain of
// such nodes could otherwise recurse without bound; past the ceiling the
// emitter degrades to a reference.
const maxInlineDepth = 1000

const indentUnit = "  "

// Options configures serialization behavior.
type Options struct {
	// MaxDepth bounds the nesting level up to which objects are inlined
	// as nested blocks instead of references. Must be positive.
	MaxDepth int
	// Base relativizes IRIs in about/resource attributes when set.
	Base string
	// Prefixes maps preferred prefixes to namespaces.
	Prefixes map[string]string
	// Logger receives non-fatal diagnostics. Nil discards them.
	Logger *log.Logger
}

// Option configures serialization behavior.
type Option func(*Options)

// OptMaxDepth sets the inline/reference nesting threshold.
func OptMaxDepth(maxDepth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = maxDepth
	}
}

// OptBase sets the base IRI for relativizing about/resource attributes.
func OptBase(base string) Option {
	return func(opts *Options) {
		opts.Base = base
	}
}

// OptPrefixes sets preferred prefix-to-namespace mappings.
func OptPrefixes(prefixes map[string]string) Option {
	return func(opts *Options) {
		opts.Prefixes = prefixes
	}
}

// OptLogger sets the logger receiving non-fatal diagnostics.
func OptLogger(logger *log.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func defaultSerializeOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// Serialize writes graph to w as an RDFa fragment: one XHTML root element
// declaring the namespaces in use, wrapping one block per top-level
// subject. Every subject is materialized exactly once; an object is either
// inlined as a nested block or referenced by name, depending on nesting
// depth and sharing. The graph is not mutated and may serve concurrent
// Serialize calls, each of which owns its own session state.
func Serialize(w io.Writer, graph Source, opts ...Option) error {
	options := defaultSerializeOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxDepth <= 0 {
		return ErrInvalidMaxDepth
	}
	logger := options.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &session{
		graph:    graph,
		writer:   bufio.NewWriter(w),
		ns:       newNamespaceManager(options.Prefixes),
		visited:  map[string]bool{},
		maxDepth: options.MaxDepth,
		base:     options.Base,
		logger:   logger,
	}
	s.registerNamespaces()
	s.root()
	if s.err != nil {
		return s.err
	}
	return s.writer.Flush()
}

// session is the state of one serialization call: the visited set, the
// namespace table and the configured limits. A session is created per
// Serialize call and never shared or reused.
type session struct {
	graph    Source
	writer   *bufio.Writer
	ns       *namespaceManager
	visited  map[string]bool
	maxDepth int
	base     string
	logger   *log.Logger
	err      error
}

func (s *session) writeString(str string) {
	if s.err != nil {
		return
	}
	if _, err := s.writer.WriteString(str); err != nil {
		s.err = err
	}
}

// registerNamespaces primes the prefix table with every namespace the
// document will use (predicates, rendered types, literal datatypes), so
// the root element can declare them all up front.
func (s *session) registerNamespaces() {
	for _, subject := range s.graph.Subjects() {
		s.typeOf(subject)
		for _, po := range s.graph.PredicateObjects(subject) {
			s.ns.qname(po.P)
			if lit, ok := po.O.(Literal); ok && lit.Datatype.Value != "" {
				s.ns.qname(lit.Datatype)
			}
		}
	}
}

func (s *session) root() {
	s.writeString(`<div xmlns="` + XHTMLNS + `"`)
	for _, decl := range s.ns.declarations() {
		s.writeString("\n  xmlns:" + decl.prefix + `="` + escapeXMLAttr(decl.namespace) + `"`)
	}
	s.writeString(">")

	subjects := s.sortedSubjects()

	// Subjects that cannot be inlined anywhere: never referenced as an
	// object, or referencing themselves.
	for _, subject := range subjects {
		if s.graph.Any(nil, nil, subject) {
			if s.graph.Any(subject, nil, subject) {
				s.subject(subject, 1)
			}
		} else {
			s.subject(subject, 1)
		}
	}

	// Everything not reached yet. Blank nodes go last so they can still
	// be inlined where possible, then any left over are flushed.
	var bnodes []Term
	for _, subject := range subjects {
		if subject.Kind() == TermBlankNode {
			bnodes = append(bnodes, subject)
			continue
		}
		s.subject(subject, 1)
	}
	for _, bnode := range bnodes {
		if !s.visited[termKey(bnode)] {
			s.subject(bnode, 1)
		}
	}

	s.writeString("\n</div>\n")
}

func (s *session) sortedSubjects() []Term {
	subjects := append([]Term(nil), s.graph.Subjects()...)
	sort.Slice(subjects, func(i, j int) bool {
		return termKey(subjects[i]) < termKey(subjects[j])
	})
	return subjects
}

// typeOf picks the rendered type of subject. The lexicographically
// smallest rdf:type object wins; if its compact name is unresolvable the
// rendered type falls back to rdfs:Resource and no type statement is
// folded into the block (all of them are emitted as edges instead).
func (s *session) typeOf(subject Term) (Term, string) {
	var chosen Term
	if types := s.graph.Objects(subject, RDFType); len(types) > 0 {
		sort.Slice(types, func(i, j int) bool {
			return termKey(types[i]) < termKey(types[j])
		})
		chosen = types[0]
	}
	if chosen != nil {
		if qn, ok := s.ns.qname(chosen); ok {
			return chosen, qn
		}
		chosen = nil
	}
	qn, _ := s.ns.qname(RDFSResource)
	return chosen, qn
}

// subject materializes one subject block. It is a no-op if the subject was
// already materialized in this session. depth is the nesting level of the
// block, counted from 1 for top-level subjects.
func (s *session) subject(subject Term, depth int) {
	key := termKey(subject)
	if s.visited[key] {
		return
	}
	s.visited[key] = true

	// Each nesting level adds a relation element and a subject element.
	indent := "\n" + strings.Repeat(indentUnit, 2*depth-1)
	chosen, typeQN := s.typeOf(subject)

	if bnode, ok := subject.(BlankNode); ok {
		if s.graph.Count(nil, nil, bnode) > 1 {
			s.writeString(indent + `<div typeof="` + typeQN + `" about="` + escapeXMLAttr(fixBlankID(bnode)) + `">`)
		} else {
			s.writeString(indent + `<div typeof="` + typeQN + `">`)
		}
	} else {
		s.writeString(indent + `<div typeof="` + typeQN + `" about="` + escapeXMLAttr(s.relativize(subject)) + `">`)
	}

	for _, po := range s.sortedEdges(subject) {
		if chosen != nil && po.P.Value == RDFType.Value && termKey(po.O) == termKey(chosen) {
			continue
		}
		s.predicate(po.P, po.O, depth)
	}

	s.writeString(indent + "</div>")
}

func (s *session) sortedEdges(subject Term) []PredicateObject {
	edges := append([]PredicateObject(nil), s.graph.PredicateObjects(subject)...)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].P.Value != edges[j].P.Value {
			return edges[i].P.Value < edges[j].P.Value
		}
		return termKey(edges[i].O) < termKey(edges[j].O)
	})
	return edges
}

// predicate emits one (predicate, object) edge. depth is the nesting level
// of the enclosing subject block; an inlined object opens a block at
// depth+1.
func (s *session) predicate(predicate IRI, object Term, depth int) {
	indent := "\n" + strings.Repeat(indentUnit, 2*depth)
	rel := s.predicateQN(predicate)

	if lit, ok := object.(Literal); ok {
		s.writeString(indent + `<div property="` + rel + `"`)
		if lit.Lang != "" {
			s.writeString(` xml:lang="` + escapeXMLAttr(lit.Lang) + `"`)
		} else if lit.Datatype.Value != "" {
			if dt, ok := s.ns.qname(lit.Datatype); ok {
				s.writeString(` datatype="` + dt + `"`)
			}
		}
		s.writeString(` content="` + escapeXMLAttr(lit.Lexical) + `"></div>`)
		return
	}

	if s.visited[termKey(object)] || !s.graph.Any(object, nil, nil) {
		s.writeString(indent + `<div rel="` + rel + `" resource="` + escapeXMLAttr(s.target(object)) + `"></div>`)
		return
	}

	if s.graph.Any(object, RDFFirst, nil) {
		s.emitCollection(object, rel, indent)
		return
	}

	s.writeString(indent + `<div rel="` + rel + `"`)
	switch {
	case s.isClassResource(object):
		s.writeString(` resource="` + escapeXMLAttr(s.relativize(object)) + `">`)
	case depth <= s.maxDepth:
		s.writeString(">")
		s.subject(object, depth+1)
		s.writeString(indent)
	case s.inlineSingleUse(object, depth):
		s.writeString(">")
		s.subject(object, depth+1)
		s.writeString(indent)
	default:
		s.writeString(` resource="` + escapeXMLAttr(s.target(object)) + `">`)
	}
	s.writeString("</div>")
}

// emitCollection renders object as a flattened rdf:first/rdf:rest chain.
// Statements on the chain cells other than the links themselves (including
// the list's own rdf:type) cannot be represented in the flattened form and
// are dropped with a diagnostic. The cells are marked visited so the flush
// pass does not materialize them.
func (s *session) emitCollection(head Term, rel, indent string) {
	col := flattenCollection(s.graph, head)
	if stray := col.strayStatements(s.graph); stray > 0 {
		s.logger.Warn("dropping assertions on list nodes other than rdf:first and rdf:rest",
			"head", head.String(), "statements", stray)
	}
	for _, node := range col.nodes {
		s.visited[termKey(node)] = true
	}
	for _, item := range col.items {
		switch it := item.(type) {
		case BlankNode:
			s.writeString(indent + `<div inlist="" rel="` + rel + `" resource="` + escapeXMLAttr(fixBlankID(it)) + `"></div>`)
			s.visited[termKey(it)] = true
		case IRI:
			s.writeString(indent + `<div inlist="" rel="` + rel + `" resource="` + escapeXMLAttr(s.relativize(it)) + `"></div>`)
		case Literal:
			s.writeString(indent + `<div inlist="" property="` + rel + `" content="` + escapeXMLAttr(it.Lexical) + `"></div>`)
			s.visited[termKey(it)] = true
		}
	}
}

// isClassResource reports whether object is an IRI declared as a class.
// Class terms are always referenced, never inlined, so shared vocabulary
// stays at the top level.
func (s *session) isClassResource(object Term) bool {
	if _, ok := object.(IRI); !ok {
		return false
	}
	return s.graph.Any(object, RDFType, OWLClass) || s.graph.Any(object, RDFType, RDFSClass)
}

// inlineSingleUse reports whether object may be inlined past MaxDepth:
// a blank node, not yet materialized, with outgoing statements, referenced
// as an object exactly once in the whole graph. Such a node has no other
// reachable location in the tree. The maxInlineDepth ceiling still applies
// so adversarial chains cannot exhaust the native stack.
func (s *session) inlineSingleUse(object Term, depth int) bool {
	if _, ok := object.(BlankNode); !ok {
		return false
	}
	if s.visited[termKey(object)] || !s.graph.Any(object, nil, nil) {
		return false
	}
	if s.graph.Count(nil, nil, object) != 1 {
		return false
	}
	if depth >= maxInlineDepth {
		s.logger.Debug("inline depth ceiling reached, emitting reference",
			"node", object.String(), "depth", depth)
		return false
	}
	return true
}

// predicateQN returns the compact name of predicate, or the full IRI when
// no compact form exists (a dot in the local part, say). RDFa attributes
// accept either form.
func (s *session) predicateQN(predicate IRI) string {
	if qn, ok := s.ns.qname(predicate); ok {
		return qn
	}
	s.logger.Debug("no compact name for predicate, using full IRI", "iri", predicate.Value)
	return escapeXMLAttr(predicate.Value)
}

func (s *session) target(object Term) string {
	if bnode, ok := object.(BlankNode); ok {
		return fixBlankID(bnode)
	}
	return s.relativize(object)
}

// relativize renders a term's IRI relative to the configured base.
func (s *session) relativize(term Term) string {
	v := term.String()
	if s.base != "" {
		if rest, ok := strings.CutPrefix(v, s.base); ok && rest != "" {
			return rest
		}
	}
	return v
}

// fixBlankID strips the "_:" ownership marker off blank node identifiers,
// which are not valid NCNames with it attached.
func fixBlankID(b BlankNode) string {
	return strings.TrimPrefix(b.ID, "_:")
}

var xmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&apos;",
)

func escapeXMLAttr(value string) string {
	return xmlEscaper.Replace(value)
}
