package session

import (
	"sync"
	"time"

	"dataanalyzer-ai/backend/models"
)

// DefaultID is the session shared by clients that send no token.
const DefaultID = "default"

type Metadata struct {
	Filename   string                       `json:"filename"`
	Rows       int                          `json:"rows"`
	Columns    []string                     `json:"columns"`
	Kinds      map[string]models.ColumnKind `json:"kinds"`
	UploadedAt time.Time                    `json:"uploaded_at"`
}

// Entry is the current table of one session.
type Entry struct {
	Table   *models.Table
	Meta    Metadata
	touched time.Time
}

// Store holds the latest upload per session. Entries idle for longer than
// the TTL are evicted on the next write.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	ttl     time.Duration
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{entries: map[string]*Entry{}, ttl: ttl, now: time.Now}
}

// Put replaces whatever the listed sessions held.
func (s *Store) Put(e Entry, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.evict(now)
	for _, id := range ids {
		cp := e
		cp.touched = now
		s.entries[id] = &cp
	}
}

func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok || s.expired(e, s.now()) {
		return Entry{}, false
	}
	return *e, true
}

// Touch extends the idle deadline of a session.
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		e.touched = s.now()
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) expired(e *Entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.touched) > s.ttl
}

func (s *Store) evict(now time.Time) {
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
		}
	}
}
