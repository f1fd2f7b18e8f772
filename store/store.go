// Package store persists RDF triples in a Badger key-value database.
//
// Triples are written under two key orderings, subject-first and
// object-first, so both forward traversal and reverse-reference lookups
// resolve with a single prefix scan. A Store satisfies rdfa.Source and
// can be handed to rdfa.Serialize directly, without loading the data
// set into memory.
package store

import (
	"bytes"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/geoknoesis/rdfa-go/rdfa"
)

// Store is a Badger-backed triple store.
type Store struct {
	db *badger.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores the given triples. Triples with a missing term are
// ignored, matching rdfa.Graph.Add.
func (s *Store) Add(triples ...rdfa.Triple) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, t := range triples {
			if t.S == nil || t.P.Value == "" || t.O == nil {
				continue
			}
			for _, index := range []Index{SPO, OPS} {
				key, err := encodeKey(index, t)
				if err != nil {
					return err
				}
				if err := txn.Set(key, nil); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Len reports the number of stored triples.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.scan([]byte{byte(SPO)}, func(rdfa.Triple) bool {
		n++
		return true
	})
	return n, err
}

// Triples returns every stored triple in subject order.
func (s *Store) Triples() ([]rdfa.Triple, error) {
	var out []rdfa.Triple
	err := s.scan([]byte{byte(SPO)}, func(t rdfa.Triple) bool {
		out = append(out, t)
		return true
	})
	return out, err
}

// Graph loads the full data set into an in-memory graph.
func (s *Store) Graph() (*rdfa.Graph, error) {
	triples, err := s.Triples()
	if err != nil {
		return nil, err
	}
	g := rdfa.NewGraph()
	g.AddAll(triples)
	return g, nil
}

// Subjects returns the distinct subjects in key order.
func (s *Store) Subjects() []rdfa.Term {
	var out []rdfa.Term
	var last string
	s.scan([]byte{byte(SPO)}, func(t rdfa.Triple) bool {
		key := t.S.String()
		if len(out) == 0 || key != last {
			out = append(out, t.S)
			last = key
		}
		return true
	})
	return out
}

// PredicateObjects returns the outgoing edges of subject.
func (s *Store) PredicateObjects(subject rdfa.Term) []rdfa.PredicateObject {
	var out []rdfa.PredicateObject
	prefix, err := scanPrefix(SPO, subject)
	if err != nil {
		return nil
	}
	s.scan(prefix, func(t rdfa.Triple) bool {
		out = append(out, rdfa.PredicateObject{P: t.P, O: t.O})
		return true
	})
	return out
}

// Objects returns the objects of statements matching subject and predicate.
func (s *Store) Objects(subject rdfa.Term, predicate rdfa.IRI) []rdfa.Term {
	var out []rdfa.Term
	prefix, err := scanPrefix(SPO, subject, predicate)
	if err != nil {
		return nil
	}
	s.scan(prefix, func(t rdfa.Triple) bool {
		out = append(out, t.O)
		return true
	})
	return out
}

// Any reports whether at least one stored triple matches the pattern.
// Nil terms act as wildcards.
func (s *Store) Any(subject, predicate, object rdfa.Term) bool {
	found := false
	s.match(subject, predicate, object, func(rdfa.Triple) bool {
		found = true
		return false
	})
	return found
}

// Count returns the number of stored triples matching the pattern.
// Nil terms act as wildcards.
func (s *Store) Count(subject, predicate, object rdfa.Term) int {
	n := 0
	s.match(subject, predicate, object, func(rdfa.Triple) bool {
		n++
		return true
	})
	return n
}

// match scans the cheapest index for the pattern and applies the
// residual filters, calling fn for each hit until it returns false.
func (s *Store) match(subject, predicate, object rdfa.Term, fn func(rdfa.Triple) bool) error {
	var prefix []byte
	var err error
	switch {
	case subject != nil:
		if predicate != nil {
			prefix, err = scanPrefix(SPO, subject, predicate)
		} else {
			prefix, err = scanPrefix(SPO, subject)
		}
	case object != nil:
		prefix, err = scanPrefix(OPS, object)
	default:
		prefix = []byte{byte(SPO)}
	}
	if err != nil {
		return err
	}
	return s.scan(prefix, func(t rdfa.Triple) bool {
		if predicate != nil {
			want, ok := predicate.(rdfa.IRI)
			if !ok || t.P != want {
				return true
			}
		}
		if object != nil && (t.O.Kind() != object.Kind() || t.O.String() != object.String()) {
			return true
		}
		return fn(t)
	})
}

// scan iterates keys under prefix, decoding each into a triple. fn
// returning false stops the scan.
func (s *Store) scan(prefix []byte, fn func(rdfa.Triple) bool) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if !bytes.HasPrefix(key, prefix) {
				break
			}
			t, err := decodeKey(key)
			if err != nil {
				return err
			}
			if !fn(t) {
				return nil
			}
		}
		return nil
	})
}
