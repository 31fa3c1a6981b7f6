package fixture

import (
	"sort"

	"github.com/dolthub/swiss"
)

// Set maps fixture IDs to fixtures. It is built once by Resolve and is
// read-only afterwards, so concurrent readers need no locking.
type Set struct {
	m *swiss.Map[string, *Fixture]
}

const minSetCapacity = 8

func newSet(capacity int) *Set {
	return &Set{m: swiss.NewMap[string, *Fixture](uint32(max(capacity, minSetCapacity)))}
}

// getOrCreate returns the fixture for id, allocating an empty one on first sight.
func (s *Set) getOrCreate(id string) *Fixture {
	if f, ok := s.m.Get(id); ok {
		return f
	}
	f := &Fixture{ID: id}
	s.m.Put(id, f)
	return f
}

// Get returns the fixture with the given ID.
func (s *Set) Get(id string) (*Fixture, bool) {
	return s.m.Get(id)
}

// Len returns the number of fixtures.
func (s *Set) Len() int {
	return s.m.Count()
}

// IDs returns all fixture IDs in ascending order.
func (s *Set) IDs() []string {
	ids := make([]string, 0, s.m.Count())
	s.m.Iter(func(id string, _ *Fixture) bool {
		ids = append(ids, id)
		return false
	})
	sort.Strings(ids)
	return ids
}

// Sorted returns all fixtures ordered by ID.
func (s *Set) Sorted() []*Fixture {
	ids := s.IDs()
	fixtures := make([]*Fixture, len(ids))
	for i, id := range ids {
		fixtures[i], _ = s.m.Get(id)
	}
	return fixtures
}
