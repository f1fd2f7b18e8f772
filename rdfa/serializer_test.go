package rdfa

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const exNS = "http://example.org/"

func ex(local string) IRI { return IRI{Value: exNS + local} }

func exPrefixes() Option {
	return OptPrefixes(map[string]string{"ex": exNS})
}

func serializeString(t *testing.T, g *Graph, opts ...Option) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Serialize(&buf, g, opts...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buf.String()
}

func TestSerializeInvalidMaxDepth(t *testing.T) {
	for _, maxDepth := range []int{0, -1} {
		var buf bytes.Buffer
		err := Serialize(&buf, NewGraph(), OptMaxDepth(maxDepth))
		if !errors.Is(err, ErrInvalidMaxDepth) {
			t.Fatalf("maxDepth=%d: expected ErrInvalidMaxDepth, got %v", maxDepth, err)
		}
		if buf.Len() != 0 {
			t.Fatalf("maxDepth=%d: output written before validation: %q", maxDepth, buf.String())
		}
	}
}

func TestSerializeEmptyGraph(t *testing.T) {
	out := serializeString(t, NewGraph())
	want := `<div xmlns="http://www.w3.org/1999/xhtml"` + "\n" +
		`  xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` + "\n" +
		`</div>` + "\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestSerializeTypedSubjectWithLanguageLiteral(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: RDFType, O: ex("Foo")})
	g.Add(Triple{S: ex("A"), P: ex("p"), O: Literal{Lexical: "hello", Lang: "en"}})

	out := serializeString(t, g, exPrefixes())
	want := `<div xmlns="http://www.w3.org/1999/xhtml"` + "\n" +
		`  xmlns:ex="http://example.org/"` + "\n" +
		`  xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` + "\n" +
		`  <div typeof="ex:Foo" about="http://example.org/A">` + "\n" +
		`    <div property="ex:p" xml:lang="en" content="hello"></div>` + "\n" +
		`  </div>` + "\n" +
		`</div>` + "\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestSerializeDatatypeLiteral(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: ex("size"), O: Literal{
		Lexical:  "42",
		Datatype: IRI{Value: "http://www.w3.org/2001/XMLSchema#integer"},
	}})

	out := serializeString(t, g, exPrefixes())
	if !strings.Contains(out, `datatype="ns0:integer"`) {
		t.Fatalf("expected datatype attribute, got:\n%s", out)
	}
	if !strings.Contains(out, `xmlns:ns0="http://www.w3.org/2001/XMLSchema#"`) {
		t.Fatalf("expected minted xsd prefix declaration, got:\n%s", out)
	}
	if strings.Contains(out, "xml:lang") {
		t.Fatalf("unexpected language attribute:\n%s", out)
	}
}

func TestSerializeLiteralEscaping(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: ex("p"), O: Literal{Lexical: `<b> & "c"`}})

	out := serializeString(t, g, exPrefixes())
	if !strings.Contains(out, `content="&lt;b&gt; &amp; &quot;c&quot;"`) {
		t.Fatalf("expected escaped content, got:\n%s", out)
	}
}

func TestSerializeUntypedSubjectFallsBackToResource(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: ex("p"), O: Literal{Lexical: "v"}})

	out := serializeString(t, g, exPrefixes())
	if !strings.Contains(out, `typeof="rdfs:Resource"`) {
		t.Fatalf("expected rdfs:Resource fallback, got:\n%s", out)
	}
	if !strings.Contains(out, `xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#"`) {
		t.Fatalf("expected rdfs declaration, got:\n%s", out)
	}
}

func TestSerializeMultipleTypesDeterministicTieBreak(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: RDFType, O: ex("Zebra")})
	g.Add(Triple{S: ex("A"), P: RDFType, O: ex("Aardvark")})
	g.Add(Triple{S: ex("A"), P: ex("p"), O: Literal{Lexical: "v"}})

	out := serializeString(t, g, exPrefixes())
	if !strings.Contains(out, `typeof="ex:Aardvark"`) {
		t.Fatalf("expected lexicographically smallest type, got:\n%s", out)
	}
	// The unchosen type statement is still represented as an edge.
	if !strings.Contains(out, `<div rel="rdf:type" resource="http://example.org/Zebra"></div>`) {
		t.Fatalf("expected remaining type as edge, got:\n%s", out)
	}
}

func TestSerializeSharedBlankNodeReferenceConsistency(t *testing.T) {
	b := BlankNode{ID: "b1"}
	g := NewGraph()
	g.Add(Triple{S: ex("X"), P: ex("r"), O: b})
	g.Add(Triple{S: ex("Y"), P: ex("r"), O: b})
	g.Add(Triple{S: b, P: ex("q"), O: Literal{Lexical: "v"}})

	out := serializeString(t, g, exPrefixes())
	if n := strings.Count(out, `about="b1"`); n != 1 {
		t.Fatalf("expected shared blank node materialized once with about, got %d:\n%s", n, out)
	}
	if n := strings.Count(out, `resource="b1"`); n != 1 {
		t.Fatalf("expected one reference to shared blank node, got %d:\n%s", n, out)
	}
}

func TestSerializeSingleUseBlankNodeHasNoIdentifier(t *testing.T) {
	b := BlankNode{ID: "b1"}
	g := NewGraph()
	g.Add(Triple{S: ex("X"), P: ex("r"), O: b})
	g.Add(Triple{S: b, P: ex("q"), O: Literal{Lexical: "v"}})

	out := serializeString(t, g, exPrefixes())
	if strings.Contains(out, `about="b1"`) || strings.Contains(out, `resource="b1"`) {
		t.Fatalf("single-use blank node must be inlined without identifier:\n%s", out)
	}
	if !strings.Contains(out, `content="v"`) {
		t.Fatalf("expected inlined blank node content, got:\n%s", out)
	}
}

func TestSerializeDepthBoundary(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: ex("next"), O: ex("B")})
	g.Add(Triple{S: ex("B"), P: ex("next"), O: ex("C")})
	g.Add(Triple{S: ex("C"), P: ex("next"), O: ex("D")})
	g.Add(Triple{S: ex("D"), P: ex("name"), O: Literal{Lexical: "d"}})

	out := serializeString(t, g, exPrefixes(), OptMaxDepth(2))
	// B and C are inlined, never referenced.
	if strings.Contains(out, `resource="http://example.org/B"`) ||
		strings.Contains(out, `resource="http://example.org/C"`) {
		t.Fatalf("B and C must be inlined at maxDepth=2:\n%s", out)
	}
	// D is referenced from C and flushed as its own top-level block.
	if !strings.Contains(out, `<div rel="ex:next" resource="http://example.org/D"></div>`) {
		t.Fatalf("expected reference to D, got:\n%s", out)
	}
	if n := strings.Count(out, `about="http://example.org/D"`); n != 1 {
		t.Fatalf("expected D materialized exactly once, got %d:\n%s", n, out)
	}
}

func TestSerializeCollectionOrder(t *testing.T) {
	l := BlankNode{ID: "l"}
	m := BlankNode{ID: "m"}
	g := NewGraph()
	g.Add(Triple{S: ex("S"), P: ex("items"), O: l})
	g.Add(Triple{S: l, P: RDFFirst, O: Literal{Lexical: "1"}})
	g.Add(Triple{S: l, P: RDFRest, O: m})
	g.Add(Triple{S: m, P: RDFFirst, O: Literal{Lexical: "2"}})
	g.Add(Triple{S: m, P: RDFRest, O: RDFNil})

	out := serializeString(t, g, exPrefixes())
	if n := strings.Count(out, `inlist=""`); n != 2 {
		t.Fatalf("expected 2 list items, got %d:\n%s", n, out)
	}
	first := strings.Index(out, `content="1"`)
	second := strings.Index(out, `content="2"`)
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected items in chain order, got:\n%s", out)
	}
	// Chain cells are dropped, not materialized.
	if strings.Contains(out, "rdf:first") || strings.Contains(out, "rdf:rest") {
		t.Fatalf("chain link statements must not be rendered:\n%s", out)
	}
}

func TestSerializeCollectionStrayAssertionsDiagnostic(t *testing.T) {
	l := BlankNode{ID: "l"}
	g := NewGraph()
	g.Add(Triple{S: ex("S"), P: ex("items"), O: l})
	g.Add(Triple{S: l, P: RDFType, O: RDFList})
	g.Add(Triple{S: l, P: ex("note"), O: Literal{Lexical: "x"}})
	g.Add(Triple{S: l, P: RDFFirst, O: Literal{Lexical: "1"}})
	g.Add(Triple{S: l, P: RDFRest, O: RDFNil})

	var diag bytes.Buffer
	logger := log.NewWithOptions(&diag, log.Options{Level: log.WarnLevel})
	out := serializeString(t, g, exPrefixes(), OptLogger(logger))

	if !strings.Contains(out, `content="1"`) {
		t.Fatalf("list items must survive stray assertions:\n%s", out)
	}
	if strings.Contains(out, `content="x"`) {
		t.Fatalf("stray assertions on list cells must be dropped:\n%s", out)
	}
	if !strings.Contains(diag.String(), "dropping assertions") {
		t.Fatalf("expected diagnostic for stray list assertions, got: %q", diag.String())
	}
}

func TestSerializeClassObjectAlwaysReferenced(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: ex("p"), O: ex("C")})
	g.Add(Triple{S: ex("C"), P: RDFType, O: OWLClass})
	g.Add(Triple{S: ex("C"), P: ex("label"), O: Literal{Lexical: "c"}})

	out := serializeString(t, g, exPrefixes())
	if !strings.Contains(out, `<div rel="ex:p" resource="http://example.org/C">`) {
		t.Fatalf("class-typed object must be referenced, not inlined:\n%s", out)
	}
	if n := strings.Count(out, `about="http://example.org/C"`); n != 1 {
		t.Fatalf("class must still be materialized once, got %d:\n%s", n, out)
	}
}

func TestSerializeSingleUseBlankNodeDepthExempt(t *testing.T) {
	b1 := BlankNode{ID: "b1"}
	b2 := BlankNode{ID: "b2"}
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: ex("p"), O: b1})
	g.Add(Triple{S: b1, P: ex("q"), O: b2})
	g.Add(Triple{S: b2, P: ex("r"), O: Literal{Lexical: "v"}})

	out := serializeString(t, g, exPrefixes(), OptMaxDepth(1))
	if strings.Contains(out, `resource="b2"`) {
		t.Fatalf("single-use blank node must be inlined past maxDepth:\n%s", out)
	}
	if !strings.Contains(out, `content="v"`) {
		t.Fatalf("expected inlined chain content, got:\n%s", out)
	}
}

func TestSerializeDeepSingleUseChainDegradesToReference(t *testing.T) {
	// A chain of single-use blank nodes is exempt from MaxDepth, so only
	// the hard nesting ceiling stops the recursion: past it the emitter
	// falls back to a reference and the rest of the chain is flushed as
	// its own top-level block.
	const chainLen = 1200
	g := NewGraph()
	cells := make([]BlankNode, chainLen)
	for i := range cells {
		cells[i] = BlankNode{ID: fmt.Sprintf("n%04d", i)}
	}
	g.Add(Triple{S: ex("S"), P: ex("p"), O: cells[0]})
	for i := 0; i < chainLen-1; i++ {
		g.Add(Triple{S: cells[i], P: ex("next"), O: cells[i+1]})
	}
	g.Add(Triple{S: cells[chainLen-1], P: ex("name"), O: Literal{Lexical: "end"}})

	out := serializeString(t, g, exPrefixes(), OptMaxDepth(1))
	if !strings.Contains(out, `resource="n0999"`) {
		t.Fatalf("expected reference past the nesting ceiling, got tail:\n%s", tail(out))
	}
	if n := strings.Count(out, `content="end"`); n != 1 {
		t.Fatalf("expected chain tail materialized exactly once, got %d", n)
	}
	if n := strings.Count(out, `resource="`); n != 1 {
		t.Fatalf("expected a single degraded reference, got %d", n)
	}
}

func tail(s string) string {
	if len(s) > 400 {
		return "..." + s[len(s)-400:]
	}
	return s
}

func TestSerializeUnresolvablePredicateUsesFullIRI(t *testing.T) {
	// A dot in the local part has no compact form; the escaped absolute
	// IRI is substituted so the statement still renders.
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: ex("has.part"), O: Literal{Lexical: "v"}})
	g.Add(Triple{S: ex("A"), P: ex("see.also"), O: ex("B")})

	out := serializeString(t, g, exPrefixes())
	if !strings.Contains(out, `property="http://example.org/has.part"`) {
		t.Fatalf("expected full IRI in property attribute, got:\n%s", out)
	}
	if !strings.Contains(out, `rel="http://example.org/see.also"`) {
		t.Fatalf("expected full IRI in rel attribute, got:\n%s", out)
	}
}

func TestSerializeFlushesUnreachedBlankNode(t *testing.T) {
	b := BlankNode{ID: "b1"}
	g := NewGraph()
	g.Add(Triple{S: ex("X"), P: ex("p"), O: ex("M")})
	g.Add(Triple{S: ex("M"), P: ex("r"), O: b})
	g.Add(Triple{S: ex("Y"), P: ex("s"), O: ex("N")})
	g.Add(Triple{S: ex("N"), P: ex("t"), O: b})
	g.Add(Triple{S: b, P: ex("q"), O: Literal{Lexical: "v"}})

	out := serializeString(t, g, exPrefixes(), OptMaxDepth(1))
	if n := strings.Count(out, `resource="b1"`); n != 2 {
		t.Fatalf("expected 2 references to shared blank node, got %d:\n%s", n, out)
	}
	if n := strings.Count(out, `about="b1"`); n != 1 {
		t.Fatalf("leftover blank node must be flushed exactly once, got %d:\n%s", n, out)
	}
}

func TestSerializeSelfReference(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: ex("p"), O: ex("A")})

	out := serializeString(t, g, exPrefixes())
	if n := strings.Count(out, `about="http://example.org/A"`); n != 1 {
		t.Fatalf("self-referential subject materialized %d times:\n%s", n, out)
	}
	if !strings.Contains(out, `<div rel="ex:p" resource="http://example.org/A"></div>`) {
		t.Fatalf("expected self reference element, got:\n%s", out)
	}
}

func TestSerializeCycle(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: ex("p"), O: ex("B")})
	g.Add(Triple{S: ex("B"), P: ex("p"), O: ex("A")})

	out := serializeString(t, g, exPrefixes())
	if n := strings.Count(out, `about="http://example.org/A"`); n != 1 {
		t.Fatalf("A materialized %d times:\n%s", n, out)
	}
	if n := strings.Count(out, `about="http://example.org/B"`); n != 1 {
		t.Fatalf("B materialized %d times:\n%s", n, out)
	}
}

func TestSerializeBaseRelativizesIdentifiers(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: ex("p"), O: ex("B")})

	out := serializeString(t, g, exPrefixes(), OptBase(exNS))
	if !strings.Contains(out, `about="A"`) {
		t.Fatalf("expected relativized about, got:\n%s", out)
	}
	if !strings.Contains(out, `resource="B"`) {
		t.Fatalf("expected relativized resource, got:\n%s", out)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestSerializeWriteErrorSurfaces(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: ex("p"), O: Literal{Lexical: "v"}})
	err := Serialize(failWriter{}, g)
	if err == nil || !strings.Contains(err.Error(), "sink closed") {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestSerializeConcurrentSessions(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: RDFType, O: ex("Foo")})
	g.Add(Triple{S: ex("A"), P: ex("p"), O: Literal{Lexical: "v"}})
	want := serializeString(t, g, exPrefixes())

	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			var buf bytes.Buffer
			if err := Serialize(&buf, g, exPrefixes()); err != nil {
				done <- "error: " + err.Error()
				return
			}
			done <- buf.String()
		}()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; got != want {
			t.Fatalf("concurrent serialization diverged:\n%s\nwant:\n%s", got, want)
		}
	}
}

func TestSerializeStatementCoverage(t *testing.T) {
	b := BlankNode{ID: "b1"}
	g := NewGraph()
	g.Add(Triple{S: ex("A"), P: RDFType, O: ex("Foo")})
	g.Add(Triple{S: ex("A"), P: ex("p"), O: Literal{Lexical: "v"}})
	g.Add(Triple{S: ex("A"), P: ex("q"), O: b})
	g.Add(Triple{S: b, P: ex("r"), O: ex("B")})

	out := serializeString(t, g, exPrefixes())
	// One element per statement, the folded type statement excepted.
	// root + A's block + property element + relation element + b's
	// inlined block + reference element for B.
	if n := strings.Count(out, "<div "); n != 6 {
		t.Fatalf("expected 6 elements, got %d:\n%s", n, out)
	}
}
