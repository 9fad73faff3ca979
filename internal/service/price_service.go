package service

import (
	"sort"

	"price_feed/internal/domain"
)

// PriceService is the read-only query facade over the snapshot.
type PriceService struct {
	store *SnapshotStore
}

// NewPriceService creates a new PriceService instance
func NewPriceService(store *SnapshotStore) *PriceService {
	return &PriceService{store: store}
}

// GetLatestPrice returns the latest margined quote for an instrument.
func (s *PriceService) GetLatestPrice(instrument string) (domain.Quote, bool) {
	return s.store.Get(instrument)
}

// GetLatestPriceFeedSnapshot returns the latest quote of every instrument
func (s *PriceService) GetLatestPriceFeedSnapshot() map[string]domain.Quote {
	return s.store.All()
}

// GetAllQuotes returns all latest quotes sorted by instrument
func (s *PriceService) GetAllQuotes() []domain.Quote {
	snapshot := s.store.All()

	result := make([]domain.Quote, 0, len(snapshot))
	for _, q := range snapshot {
		result = append(result, q)
	}

	// Sort by instrument for consistent ordering
	sort.Slice(result, func(i, j int) bool {
		return result[i].Instrument < result[j].Instrument
	})

	return result
}
