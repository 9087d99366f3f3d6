package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/store"
)

// Store is an in-memory implementation of store.Store for tests and for
// embedding a trained bundle in a single process. Bundles are kept in their
// flattened form and re-assembled on every load, so callers never share
// mutable state with the store.
type Store struct {
	mu    sync.RWMutex
	parts map[string]store.Parts
}

var _ store.Store = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{parts: make(map[string]store.Parts)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveBundle implements store.Store.
func (s *Store) SaveBundle(ctx context.Context, b *store.Bundle) error {
	p, err := store.Disassemble(b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parts[p.ID]; ok {
		return fmt.Errorf("bundle %s: %w", p.ID, internalerr.ErrDuplicate)
	}
	s.parts[p.ID] = p
	return nil
}

// LoadBundle implements store.Store.
func (s *Store) LoadBundle(ctx context.Context, id string) (*store.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == "" {
		list := s.summariesLocked()
		if len(list) == 0 {
			return nil, store.NotFound("")
		}
		id = list[0].ID
	}
	p, ok := s.parts[id]
	if !ok {
		return nil, store.NotFound(id)
	}
	return store.Assemble(p)
}

// ListBundles implements store.Store.
func (s *Store) ListBundles(ctx context.Context) ([]store.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summariesLocked(), nil
}

func (s *Store) summariesLocked() []store.Summary {
	out := make([]store.Summary, 0, len(s.parts))
	for id, p := range s.parts {
		out = append(out, store.Summary{
			ID:        id,
			CreatedAt: p.CreatedAt,
			NumTopics: len(p.Labels),
			VocabSize: len(p.Tokens),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
