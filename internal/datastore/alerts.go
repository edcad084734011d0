package datastore

import (
	"sync"
	"time"

	"github.com/faunawatch/faunawatch-go/internal/model"
)

// MemoryAlertStore is a mutex-guarded, bounded alert collection with the
// same ordering and eviction policy as the detection store.
type MemoryAlertStore struct {
	mu      sync.RWMutex
	records []*model.Alert // oldest first
	maxSize int
	clock   func() time.Time
}

// NewMemoryAlertStore creates an alert store with the given cap.
func NewMemoryAlertStore(maxSize int) *MemoryAlertStore {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &MemoryAlertStore{
		records: make([]*model.Alert, 0, maxSize),
		maxSize: maxSize,
		clock:   time.Now,
	}
}

// SetClock overrides the time source, used by tests.
func (s *MemoryAlertStore) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// Insert assigns an ID and server-side timestamp, stores the alert and
// trims to the cap.
func (s *MemoryAlertStore) Insert(a *model.Alert) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	a.ID = model.NewID(now)
	a.Timestamp = now
	s.records = append(s.records, a)

	if len(s.records) > s.maxSize {
		s.records = s.records[len(s.records)-s.maxSize:]
	}
	if cap(s.records) > 2*s.maxSize {
		compact := make([]*model.Alert, len(s.records), s.maxSize)
		copy(compact, s.records)
		s.records = compact
	}
	return a.ID, nil
}

// List returns alerts newest-first, optionally only unacknowledged ones.
func (s *MemoryAlertStore) List(unacknowledgedOnly bool) (int, []model.Alert) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page := make([]model.Alert, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		a := s.records[i]
		if unacknowledgedOnly && a.Acknowledged {
			continue
		}
		page = append(page, *a)
	}
	return len(page), page
}

// Acknowledge marks the alert acknowledged. Acknowledging an already
// acknowledged alert succeeds and returns the same state.
func (s *MemoryAlertStore) Acknowledge(id string) (*model.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.records {
		if a.ID == id {
			a.Acknowledged = true
			alertCopy := *a
			return &alertCopy, nil
		}
	}
	return nil, ErrAlertNotFound
}

// ActiveCount returns the number of unacknowledged alerts.
func (s *MemoryAlertStore) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, a := range s.records {
		if !a.Acknowledged {
			count++
		}
	}
	return count
}
