package service

import (
	"sync"

	"price_feed/internal/domain"
)

// SnapshotStore holds the latest quote per instrument.
//
// Values are stored as pointers to quotes that are never modified after Put,
// so a reader always sees a complete quote. Reads do not take locks; writes to
// different instruments do not contend.
type SnapshotStore struct {
	quotes sync.Map // instrument -> *domain.Quote
}

// NewSnapshotStore creates an empty store
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Get returns the latest quote for instrument.
func (s *SnapshotStore) Get(instrument string) (domain.Quote, bool) {
	v, ok := s.quotes.Load(instrument)
	if !ok {
		return domain.Quote{}, false
	}
	return *v.(*domain.Quote), true
}

// Put replaces the quote for instrument.
func (s *SnapshotStore) Put(instrument string, q domain.Quote) {
	s.quotes.Store(instrument, &q)
}

// All returns a copy of every known instrument's latest quote.
// Updates racing with the call may or may not be included.
func (s *SnapshotStore) All() map[string]domain.Quote {
	result := make(map[string]domain.Quote)
	s.quotes.Range(func(k, v any) bool {
		result[k.(string)] = *v.(*domain.Quote)
		return true
	})
	return result
}

// Len returns the number of known instruments.
func (s *SnapshotStore) Len() int {
	n := 0
	s.quotes.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
