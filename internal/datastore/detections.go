package datastore

import (
	"sync"
	"time"

	"github.com/faunawatch/faunawatch-go/internal/model"
)

// MemoryDetectionStore is a mutex-guarded, bounded detection collection.
// Records are kept oldest-to-newest in the backing slice so insertion is an
// O(1) append; eviction drops from the front and the public ordering
// (newest first) is produced by walking the slice backwards. This gives the
// deque semantics the retention policy needs without per-insert copying.
type MemoryDetectionStore struct {
	mu      sync.RWMutex
	records []*model.Detection // oldest first
	maxSize int
	clock   func() time.Time
}

// NewMemoryDetectionStore creates a detection store with the given cap.
func NewMemoryDetectionStore(maxSize int) *MemoryDetectionStore {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &MemoryDetectionStore{
		records: make([]*model.Detection, 0, maxSize),
		maxSize: maxSize,
		clock:   time.Now,
	}
}

// SetClock overrides the time source, used by tests for deterministic IDs.
func (s *MemoryDetectionStore) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// Insert assigns an ID, stores the record and trims to the cap.
func (s *MemoryDetectionStore) Insert(d *model.Detection) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = model.NewID(s.clock())
	s.records = append(s.records, d)
	s.trimLocked()
	return d.ID, nil
}

// trimLocked drops the oldest records beyond the cap. When the backing
// array has drifted far past the cap it is reallocated so evicted records
// do not pin memory.
func (s *MemoryDetectionStore) trimLocked() {
	if len(s.records) > s.maxSize {
		s.records = s.records[len(s.records)-s.maxSize:]
	}
	if cap(s.records) > 2*s.maxSize {
		compact := make([]*model.Detection, len(s.records), s.maxSize)
		copy(compact, s.records)
		s.records = compact
	}
}

// List returns the total count and a newest-first page [offset, offset+limit).
func (s *MemoryDetectionStore) List(offset, limit int) (int, []model.Detection) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.records)
	if offset < 0 || limit <= 0 || offset >= total {
		return total, []model.Detection{}
	}

	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]model.Detection, 0, end-offset)
	for i := offset; i < end; i++ {
		// newest-first: index from the tail of the backing slice
		page = append(page, *s.records[total-1-i])
	}
	return total, page
}

// Get returns a copy of the detection with the given ID.
func (s *MemoryDetectionStore) Get(id string) (*model.Detection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.records {
		if d.ID == id {
			detCopy := *d
			return &detCopy, nil
		}
	}
	return nil, ErrDetectionNotFound
}

// Delete removes the detection with the given ID and returns it so the
// caller can clean up the associated snapshot.
func (s *MemoryDetectionStore) Delete(id string) (*model.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.records {
		if d.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			detCopy := *d
			return &detCopy, nil
		}
	}
	return nil, ErrDetectionNotFound
}

// Len returns the current record count.
func (s *MemoryDetectionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// CountSince returns how many stored detections occurred at or after cutoff.
func (s *MemoryDetectionStore) CountSince(cutoff time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, d := range s.records {
		if !d.Timestamp.Before(cutoff) {
			count++
		}
	}
	return count
}
