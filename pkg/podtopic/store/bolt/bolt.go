// Package bolt implements store.Store using bbolt. Each bundle gets its own
// top-level bucket holding JSON values under the meta, vocab, model and
// labels keys. A bundle is written in one transaction, so a crash mid-write
// cannot leave a partial bundle behind.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/store"
)

// Bucket keys
var (
	keyMeta   = []byte("meta")
	keyVocab  = []byte("vocab")
	keyModel  = []byte("model")
	keyLabels = []byte("labels")
)

// meta is everything in a bundle that is not a large artifact.
type meta struct {
	Format           int                    `json:"format"`
	CreatedAt        time.Time              `json:"created_at"`
	Normalizer       store.NormalizerConfig `json:"normalizer"`
	VocabFingerprint string                 `json:"vocab_fingerprint"`
	NumTopics        int                    `json:"num_topics"`
	VocabSize        int                    `json:"vocab_size"`
}

// Store implements store.Store backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) a bbolt database at the given path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBundle persists b under its id.
func (s *Store) SaveBundle(ctx context.Context, b *store.Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := store.Disassemble(b)
	if err != nil {
		return err
	}

	metaJSON, err := json.Marshal(meta{
		Format:           p.FormatVersion,
		CreatedAt:        p.CreatedAt,
		Normalizer:       p.Normalizer,
		VocabFingerprint: p.VocabFingerprint,
		NumTopics:        len(p.Labels),
		VocabSize:        len(p.Tokens),
	})
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	vocabJSON, err := json.Marshal(p.Tokens)
	if err != nil {
		return fmt.Errorf("marshal vocab: %w", err)
	}
	labelsJSON, err := json.Marshal(p.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(p.ID)) != nil {
			return fmt.Errorf("bundle %s: %w", p.ID, internalerr.ErrDuplicate)
		}
		bb, err := tx.CreateBucket([]byte(p.ID))
		if err != nil {
			return err
		}
		if err := bb.Put(keyMeta, metaJSON); err != nil {
			return err
		}
		if err := bb.Put(keyVocab, vocabJSON); err != nil {
			return err
		}
		if err := bb.Put(keyModel, p.Model); err != nil {
			return err
		}
		return bb.Put(keyLabels, labelsJSON)
	})
}

// LoadBundle retrieves a bundle; an empty id selects the newest.
func (s *Store) LoadBundle(ctx context.Context, id string) (*store.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var metaJSON, vocabJSON, modelJSON, labelsJSON []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if id == "" {
			latest, err := newest(tx)
			if err != nil {
				return err
			}
			id = latest
		}
		bb := tx.Bucket([]byte(id))
		if bb == nil {
			return store.NotFound(id)
		}
		// bbolt slices are only valid within tx
		metaJSON = copyBytes(bb.Get(keyMeta))
		vocabJSON = copyBytes(bb.Get(keyVocab))
		modelJSON = copyBytes(bb.Get(keyModel))
		labelsJSON = copyBytes(bb.Get(keyLabels))
		return nil
	})
	if err != nil {
		return nil, err
	}

	p := store.Parts{ID: id, Model: modelJSON}
	var m meta
	if err := decode(metaJSON, &m); err != nil {
		return nil, &internalerr.LoadError{Artifact: "bundle", Source: id, Err: err}
	}
	p.FormatVersion = m.Format
	p.CreatedAt = m.CreatedAt
	p.Normalizer = m.Normalizer
	p.VocabFingerprint = m.VocabFingerprint

	if err := decode(vocabJSON, &p.Tokens); err != nil {
		return nil, &internalerr.LoadError{Artifact: "vocabulary", Source: id, Err: err}
	}
	if err := decode(labelsJSON, &p.Labels); err != nil {
		return nil, &internalerr.LoadError{Artifact: "labels", Source: id, Err: err}
	}
	if modelJSON == nil {
		return nil, &internalerr.LoadError{Artifact: "model", Source: id, Err: fmt.Errorf("missing")}
	}
	return store.Assemble(p)
}

// ListBundles returns summaries, newest first.
func (s *Store) ListBundles(ctx context.Context) ([]store.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []store.Summary
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, bb *bolt.Bucket) error {
			var m meta
			if err := decode(bb.Get(keyMeta), &m); err != nil {
				return fmt.Errorf("bundle %s: %w", name, err)
			}
			out = append(out, store.Summary{
				ID:        string(name),
				CreatedAt: m.CreatedAt,
				NumTopics: m.NumTopics,
				VocabSize: m.VocabSize,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

func newest(tx *bolt.Tx) (string, error) {
	var (
		bestID string
		best   time.Time
	)
	err := tx.ForEach(func(name []byte, bb *bolt.Bucket) error {
		var m meta
		if err := decode(bb.Get(keyMeta), &m); err != nil {
			return &internalerr.LoadError{Artifact: "bundle", Source: string(name), Err: err}
		}
		if bestID == "" || m.CreatedAt.After(best) || (m.CreatedAt.Equal(best) && string(name) > bestID) {
			bestID, best = string(name), m.CreatedAt
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if bestID == "" {
		return "", store.NotFound("")
	}
	return bestID, nil
}

func sortNewestFirst(list []store.Summary) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

func decode(data []byte, v any) error {
	if data == nil {
		return fmt.Errorf("missing")
	}
	return json.Unmarshal(data, v)
}

func copyBytes(v []byte) []byte {
	if v == nil {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
