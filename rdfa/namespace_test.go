package rdfa

import "testing"

func TestNamespaceManagerRewritesReservedPrefix(t *testing.T) {
	m := newNamespaceManager(nil)
	got := m.add("_9", "http://example.org/a#")
	if got != "p_9" {
		t.Fatalf("expected p_9, got %q", got)
	}
	// The rewrite is cached by original prefix and stable.
	if again := m.add("_9", "http://example.org/a#"); again != "p_9" {
		t.Fatalf("expected stable rewrite p_9, got %q", again)
	}
}

func TestNamespaceManagerRewriteAvoidsOccupiedPrefix(t *testing.T) {
	m := newNamespaceManager(nil)
	// A "real" p_9 claimed first forces the reserved _9 one step further.
	m.add("p_9", "http://example.org/real#")
	if got := m.add("_9", "http://example.org/blank#"); got != "pp_9" {
		t.Fatalf("expected pp_9, got %q", got)
	}
}

func TestNamespaceManagerCollisionRewrite(t *testing.T) {
	m := newNamespaceManager(nil)
	if got := m.add("ex", "http://example.org/a#"); got != "ex" {
		t.Fatalf("expected ex, got %q", got)
	}
	if got := m.add("ex", "http://example.org/b#"); got != "pex" {
		t.Fatalf("expected pex for colliding namespace, got %q", got)
	}
	// Same prefix and namespace as before is not a collision.
	if got := m.add("ex", "http://example.org/a#"); got != "ex" {
		t.Fatalf("expected ex unchanged, got %q", got)
	}
}

func TestNamespaceManagerEmptyPrefix(t *testing.T) {
	m := newNamespaceManager(nil)
	if got := m.add("", "http://example.org/"); got != "p" {
		t.Fatalf("expected p for empty prefix, got %q", got)
	}
}

func TestQNameComputation(t *testing.T) {
	tests := []struct {
		name string
		term Term
		want string
		ok   bool
	}{
		{"hash local", IRI{Value: "http://example.org/ns#thing"}, "ns0:thing", true},
		{"slash local", IRI{Value: "http://example.org/thing"}, "ns1:thing", true},
		{"rdf vocabulary", RDFType, "rdf:type", true},
		{"dot in local", IRI{Value: "http://example.org/ns#a.b"}, "", false},
		{"digit start local", IRI{Value: "http://example.org/ns#9things"}, "", false},
		{"blank node", BlankNode{ID: "b"}, "", false},
		{"literal", Literal{Lexical: "v"}, "", false},
	}
	m := newNamespaceManager(nil)
	for _, tt := range tests {
		got, ok := m.qname(tt.term)
		if ok != tt.ok || got != tt.want {
			t.Errorf("%s: qname() = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestQNameNamespaceItself(t *testing.T) {
	m := newNamespaceManager(map[string]string{"ex": "http://example.org/ns#"})
	if _, ok := m.qname(IRI{Value: "http://example.org/ns#thing"}); !ok {
		t.Fatal("expected qname for term in namespace")
	}
	got, ok := m.qname(IRI{Value: "http://example.org/ns#"})
	if !ok || got != "ex:" {
		t.Fatalf("expected ex: for the namespace itself, got %q, %v", got, ok)
	}
}

func TestQNamePreferredPrefix(t *testing.T) {
	m := newNamespaceManager(map[string]string{"foaf": "http://xmlns.com/foaf/0.1/"})
	got, ok := m.qname(IRI{Value: "http://xmlns.com/foaf/0.1/name"})
	if !ok || got != "foaf:name" {
		t.Fatalf("expected foaf:name, got %q, %v", got, ok)
	}
}

func TestDeclarationsSorted(t *testing.T) {
	m := newNamespaceManager(nil)
	m.add("zz", "http://example.org/z#")
	m.add("aa", "http://example.org/a#")
	decls := m.declarations()
	for i := 1; i < len(decls); i++ {
		if decls[i-1].prefix >= decls[i].prefix {
			t.Fatalf("declarations not sorted: %v", decls)
		}
	}
}
