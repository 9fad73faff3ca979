package service

import (
	"sync"
	"testing"

	"price_feed/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newQuote(instrument string, n int64) domain.Quote {
	bid := decimal.NewFromInt(n)
	return domain.Quote{
		ID:         uuid.New(),
		Instrument: instrument,
		Bid:        bid,
		Ask:        bid.Add(decimal.RequireFromString("0.5")),
		Timestamp:  n,
	}
}

// consistent reports whether q was written as a whole by newQuote.
func consistent(q domain.Quote) bool {
	return q.Bid.Equal(decimal.NewFromInt(q.Timestamp)) &&
		q.Spread().Equal(decimal.RequireFromString("0.5"))
}

func TestSnapshotStore_GetAbsent(t *testing.T) {
	s := NewSnapshotStore()

	if _, ok := s.Get("XXX/YYY"); ok {
		t.Error("Unknown instrument should be absent")
	}
	if len(s.All()) != 0 {
		t.Error("New store should be empty")
	}
}

func TestSnapshotStore_PutOverwrites(t *testing.T) {
	s := NewSnapshotStore()

	first := newQuote("EUR/USD", 1)
	second := newQuote("EUR/USD", 2)
	s.Put("EUR/USD", first)
	s.Put("EUR/USD", second)

	got, ok := s.Get("EUR/USD")
	if !ok {
		t.Fatal("EUR/USD should exist")
	}
	if got.ID != second.ID {
		t.Errorf("Expected latest quote %s, got %s", second.ID, got.ID)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 instrument, got %d", s.Len())
	}
}

func TestSnapshotStore_AllIsCopy(t *testing.T) {
	s := NewSnapshotStore()
	s.Put("EUR/USD", newQuote("EUR/USD", 1))
	s.Put("GBP/USD", newQuote("GBP/USD", 2))

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(all))
	}

	delete(all, "EUR/USD")
	if _, ok := s.Get("EUR/USD"); !ok {
		t.Error("Mutating the returned map must not affect the store")
	}
}

func TestSnapshotStore_ConcurrentPutSameInstrument(t *testing.T) {
	const writers = 64
	s := NewSnapshotStore()

	written := make(map[uuid.UUID]bool, writers)
	quotes := make([]domain.Quote, writers)
	for i := range quotes {
		quotes[i] = newQuote("AUD/USD", int64(i+1))
		written[quotes[i].ID] = true
	}

	var wg sync.WaitGroup
	for _, q := range quotes {
		wg.Add(1)
		go func(q domain.Quote) {
			defer wg.Done()
			s.Put(q.Instrument, q)
		}(q)
	}
	wg.Wait()

	got, ok := s.Get("AUD/USD")
	if !ok {
		t.Fatal("AUD/USD should exist")
	}
	if !written[got.ID] {
		t.Errorf("Stored ID %s was never written", got.ID)
	}
	if !consistent(got) {
		t.Errorf("Stored quote mixes fields of different writes: %v", got)
	}
}

func TestSnapshotStore_ConcurrentReadersNeverSeeTornWrites(t *testing.T) {
	s := NewSnapshotStore()
	instruments := []string{"EUR/USD", "GBP/USD", "USD/JPY"}

	stop := make(chan struct{})
	var writers sync.WaitGroup
	for _, inst := range instruments {
		writers.Add(1)
		go func(inst string) {
			defer writers.Done()
			for n := int64(1); n <= 2000; n++ {
				s.Put(inst, newQuote(inst, n))
			}
		}(inst)
	}

	var readers sync.WaitGroup
	for r := 0; r < 4; r++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for _, inst := range instruments {
					if q, ok := s.Get(inst); ok && !consistent(q) {
						t.Errorf("Torn read for %s: %v", inst, q)
						return
					}
				}
				for inst, q := range s.All() {
					if q.Instrument != inst || !consistent(q) {
						t.Errorf("Torn snapshot entry for %s: %v", inst, q)
						return
					}
				}
			}
		}()
	}

	writers.Wait()
	close(stop)
	readers.Wait()

	for _, inst := range instruments {
		q, ok := s.Get(inst)
		if !ok || q.Timestamp != 2000 {
			t.Errorf("Expected final write for %s, got %v", inst, q)
		}
	}
}

func BenchmarkSnapshotStore_Get(b *testing.B) {
	s := NewSnapshotStore()
	s.Put("EUR/USD", newQuote("EUR/USD", 1))

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.Get("EUR/USD")
		}
	})
}

func BenchmarkSnapshotStore_Put(b *testing.B) {
	s := NewSnapshotStore()
	q := newQuote("EUR/USD", 1)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Put("EUR/USD", q)
	}
}
