package rdfa

// Namespaces of the vocabularies the serializer knows about.
const (
	// RDFNS is the RDF Concepts vocabulary namespace.
	RDFNS = `http://www.w3.org/1999/02/22-rdf-syntax-ns#`
	// RDFSNS is the RDF Schema vocabulary namespace.
	RDFSNS = `http://www.w3.org/2000/01/rdf-schema#`
	// OWLNS is the OWL vocabulary namespace.
	OWLNS = `http://www.w3.org/2002/07/owl#`
	// XHTMLNS is the XHTML namespace declared on the root element.
	XHTMLNS = `http://www.w3.org/1999/xhtml`
)

var (
	// RDFType states that the subject is an instance of a class.
	RDFType = IRI{Value: RDFNS + "type"}
	// RDFFirst is the first item in the subject RDF list.
	RDFFirst = IRI{Value: RDFNS + "first"}
	// RDFRest is the rest of the subject RDF list after the first item.
	RDFRest = IRI{Value: RDFNS + "rest"}
	// RDFNil is the empty list.
	RDFNil = IRI{Value: RDFNS + "nil"}
	// RDFList is the class of RDF lists.
	RDFList = IRI{Value: RDFNS + "List"}

	// RDFSResource is the class of everything; the fallback type for
	// subjects whose declared type has no compact name.
	RDFSResource = IRI{Value: RDFSNS + "Resource"}
	// RDFSClass is the class of classes.
	RDFSClass = IRI{Value: RDFSNS + "Class"}

	// OWLClass is the OWL class of classes.
	OWLClass = IRI{Value: OWLNS + "Class"}
)
