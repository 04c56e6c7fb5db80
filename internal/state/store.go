package state

import (
	"maps"
	"sync"
	"time"

	"gw-rate-converter/internal/models"
)

// Snapshot is one fully committed view of the conversion state. Readers always get a copy.
type Snapshot struct {
	InputText  string
	Results    map[string]models.ConversionResult
	Err        error
	IsLoading  bool
	Generation uint64
	UpdatedAt  time.Time
}

func (s Snapshot) clone() Snapshot {
	if s.Results != nil {
		s.Results = maps.Clone(s.Results)
	}
	return s
}

// Store holds the current snapshot. Commits replace it wholesale and only land for the latest generation.
type Store struct {
	mu          sync.RWMutex
	current     Snapshot
	latest      uint64
	subscribers map[int]chan Snapshot
	nextSubID   int
	now         func() time.Time
}

func NewStore() *Store {
	s := &Store{
		subscribers: make(map[int]chan Snapshot),
		now:         time.Now,
	}
	s.current = Snapshot{Results: map[string]models.ConversionResult{}, UpdatedAt: s.now()}
	return s
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// NextGeneration allocates a generation strictly greater than any issued before.
func (s *Store) NextGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

func (s *Store) Latest() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Commit replaces the snapshot if gen is still the latest generation and reports whether it landed.
func (s *Store) Commit(gen uint64, next Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.latest {
		return false
	}

	next.Generation = gen
	next.UpdatedAt = s.now()
	if next.Results == nil {
		next.Results = map[string]models.ConversionResult{}
	}
	if next.Err != nil {
		next.Results = map[string]models.ConversionResult{}
		next.IsLoading = false
	}
	s.current = next.clone()

	for _, ch := range s.subscribers {
		select {
		case ch <- s.current.clone():
		default:
		}
	}
	return true
}

// Subscribe delivers every landed commit without blocking the writer; a full buffer drops the snapshot.
func (s *Store) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Snapshot, buffer)
	s.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}
