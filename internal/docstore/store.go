package docstore

import (
	"cmp"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired document ids.
var ErrNotFound = errors.New("document not found")

// Document is a stored forest. The forest is only reachable through Read
// and Write, which hold the document lock for the duration of the call.
type Document struct {
	mu sync.RWMutex

	ID          string
	Filename    string
	ContentHash string
	CreatedAt   time.Time

	updatedAt time.Time
	forest    *forest.Forest[string]
}

// Read runs fn with shared access to the forest.
func (d *Document) Read(fn func(*forest.Forest[string]) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return fn(d.forest)
}

// Write runs fn with exclusive access to the forest and marks the
// document as updated.
func (d *Document) Write(fn func(*forest.Forest[string]) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := fn(d.forest)
	d.updatedAt = time.Now()
	return err
}

func (d *Document) lastUpdate() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.updatedAt
}

// Snapshot is a read-only, JSON-safe copy of document metadata.
type Snapshot struct {
	ID          string    `json:"doc_id"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash,omitempty"`
	Trees       []string  `json:"trees"`
	Nodes       int       `json:"nodes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the document metadata.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := Snapshot{
		ID:          d.ID,
		Filename:    d.Filename,
		ContentHash: d.ContentHash,
		Trees:       d.forest.IDs(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.updatedAt,
	}
	for _, t := range d.forest.All() {
		snap.Nodes += t.Len()
	}
	return snap
}

// Stats summarizes store activity.
type Stats struct {
	Documents int   `json:"documents"`
	Trees     int   `json:"trees"`
	Nodes     int   `json:"nodes"`
	Added     int64 `json:"added"`
	Deleted   int64 `json:"deleted"`
	Evicted   int64 `json:"evicted"`
}

// Store is a thread-safe in-memory document registry with TTL eviction.
type Store struct {
	mu   sync.Mutex
	docs map[string]*Document
	ttl  time.Duration
	log  *slog.Logger
	now  func() time.Time

	added, deleted, evicted int64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStore creates a store that evicts documents not updated within ttl.
// A zero ttl keeps documents until they are deleted.
func NewStore(ttl time.Duration, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{
		docs: make(map[string]*Document),
		ttl:  ttl,
		log:  log,
		now:  time.Now,
	}
}

// Add registers f under a fresh id.
func (s *Store) Add(filename string, data []byte, f *forest.Forest[string]) (*Document, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate document id: %w", err)
	}
	now := s.now()
	doc := &Document{
		ID:          id.String(),
		Filename:    filename,
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		updatedAt:   now,
		forest:      f,
	}

	s.mu.Lock()
	s.docs[doc.ID] = doc
	s.added++
	s.mu.Unlock()

	s.log.Info("document stored", "doc_id", doc.ID, "filename", filename, "trees", f.Len())
	return doc, nil
}

// Get returns the document registered under id.
func (s *Store) Get(id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return doc, nil
}

// FindByHash returns a document whose source bytes hash to hash.
func (s *Store) FindByHash(hash string) (*Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		if doc.ContentHash == hash {
			return doc, true
		}
	}
	return nil, false
}

// Delete removes the document registered under id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(s.docs, id)
	s.deleted++
	return nil
}

// List returns snapshots of all documents, oldest first.
func (s *Store) List() []Snapshot {
	s.mu.Lock()
	docs := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	s.mu.Unlock()

	snaps := make([]Snapshot, 0, len(docs))
	for _, doc := range docs {
		snaps = append(snaps, doc.Snapshot())
	}
	slices.SortFunc(snaps, func(a, b Snapshot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return snaps
}

// Cleanup removes expired documents and returns how many were removed.
func (s *Store) Cleanup() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, doc := range s.docs {
		if now.Sub(doc.lastUpdate()) > s.ttl {
			delete(s.docs, id)
			removed++
		}
	}
	s.evicted += int64(removed)
	if removed > 0 {
		s.log.Info("evicted expired documents", "count", removed)
	}
	return removed
}

// Stats returns a snapshot of store counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	docs := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	st := Stats{
		Documents: len(s.docs),
		Added:     s.added,
		Deleted:   s.deleted,
		Evicted:   s.evicted,
	}
	s.mu.Unlock()

	for _, doc := range docs {
		snap := doc.Snapshot()
		st.Trees += len(snap.Trees)
		st.Nodes += snap.Nodes
	}
	return st
}

// Start launches the background cleanup loop.
func (s *Store) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Stop ends the cleanup loop and waits for it to exit.
func (s *Store) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
