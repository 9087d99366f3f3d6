// Package store persists training results as artifact bundles: the
// normalizer configuration, vocabulary, topic model and labels that must
// always be loaded together.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/label"
	"github.com/cognicore/podtopic/pkg/podtopic/normalize"
	"github.com/cognicore/podtopic/pkg/podtopic/stoplist"
	"github.com/cognicore/podtopic/pkg/podtopic/topicmodel/lda"
	"github.com/cognicore/podtopic/pkg/podtopic/vocab"
)

// FormatVersion is the bundle layout version written by every backend.
const FormatVersion = 1

// Store is the interface for persisting and loading artifact bundles.
type Store interface {
	Close() error

	// SaveBundle validates b and writes it atomically.
	SaveBundle(ctx context.Context, b *Bundle) error
	// LoadBundle returns the bundle with id, or the newest one when id is
	// empty. Missing bundles are a *internalerr.LoadError wrapping
	// internalerr.ErrNotFound.
	LoadBundle(ctx context.Context, id string) (*Bundle, error)
	// ListBundles returns summaries, newest first.
	ListBundles(ctx context.Context) ([]Summary, error)
}

// NormalizerConfig records the stop terms a bundle was trained with.
type NormalizerConfig struct {
	Stopwords   []string `json:"stopwords"`   // full set applied by the normalizer
	Exclusions  []string `json:"exclusions"`  // domain subset of Stopwords
	Fingerprint string   `json:"fingerprint"` // stoplist.Fingerprint(Stopwords)
}

// NewNormalizer rebuilds the normalizer the bundle was trained with.
func (c NormalizerConfig) NewNormalizer() *normalize.Normalizer {
	return normalize.New(c.Stopwords)
}

func (c NormalizerConfig) clone() NormalizerConfig {
	c.Stopwords = append([]string(nil), c.Stopwords...)
	c.Exclusions = append([]string(nil), c.Exclusions...)
	return c
}

// Bundle is an immutable, matched set of training artifacts.
type Bundle struct {
	ID            string
	FormatVersion int
	CreatedAt     time.Time
	Normalizer    NormalizerConfig
	Vocabulary    *vocab.Index
	Model         *lda.Model
	Labels        label.Table
}

// Summary describes a stored bundle without loading its model.
type Summary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	NumTopics int       `json:"num_topics"`
	VocabSize int       `json:"vocab_size"`
}

// Summary returns the listing entry for b.
func (b *Bundle) Summary() Summary {
	return Summary{
		ID:        b.ID,
		CreatedAt: b.CreatedAt,
		NumTopics: b.Model.NumTopics(),
		VocabSize: b.Vocabulary.Len(),
	}
}

// Validate checks that the parts of b belong together.
func (b *Bundle) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("bundle: missing id: %w", internalerr.ErrInvalidInput)
	}
	if b.Vocabulary == nil || b.Model == nil {
		return fmt.Errorf("bundle %s: missing vocabulary or model: %w", b.ID, internalerr.ErrInvalidInput)
	}
	if err := b.Model.CheckVocabulary(b.Vocabulary); err != nil {
		return err
	}
	if err := b.Labels.CheckTopics(b.Model.NumTopics()); err != nil {
		return err
	}
	if fp := stoplist.Fingerprint(b.Normalizer.Stopwords); fp != b.Normalizer.Fingerprint {
		return &internalerr.VocabularyMismatchError{
			Artifact: "normalizer",
			Want:     b.Normalizer.Fingerprint,
			Got:      fp,
			Detail:   "stopword fingerprint",
		}
	}
	return nil
}

// Parts is the flattened form of a bundle as backends store it.
type Parts struct {
	ID               string
	FormatVersion    int
	CreatedAt        time.Time
	Normalizer       NormalizerConfig
	Tokens           []string
	VocabFingerprint string
	Model            []byte
	Labels           []string
}

// Disassemble validates b and flattens it for storage.
func Disassemble(b *Bundle) (Parts, error) {
	if err := b.Validate(); err != nil {
		return Parts{}, err
	}
	body, err := json.Marshal(b.Model)
	if err != nil {
		return Parts{}, fmt.Errorf("encode model: %w", err)
	}
	created := b.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return Parts{
		ID:               b.ID,
		FormatVersion:    FormatVersion,
		CreatedAt:        created.UTC(),
		Normalizer:       b.Normalizer.clone(),
		Tokens:           b.Vocabulary.Tokens(),
		VocabFingerprint: b.Vocabulary.Fingerprint(),
		Model:            body,
		Labels:           b.Labels.Labels(),
	}, nil
}

// Assemble decodes and cross-checks stored parts. It returns either a fully
// validated bundle or an error; corrupt parts are *internalerr.LoadError and
// parts that do not belong together are *internalerr.VocabularyMismatchError.
func Assemble(p Parts) (*Bundle, error) {
	if p.FormatVersion != FormatVersion {
		return nil, &internalerr.LoadError{
			Artifact: "bundle",
			Source:   p.ID,
			Err:      fmt.Errorf("unsupported format %d (want %d)", p.FormatVersion, FormatVersion),
		}
	}

	idx, err := vocab.FromTokens(p.Tokens)
	if err != nil {
		return nil, &internalerr.LoadError{Artifact: "vocabulary", Source: p.ID, Err: err}
	}
	if idx.Fingerprint() != p.VocabFingerprint {
		return nil, &internalerr.LoadError{
			Artifact: "vocabulary",
			Source:   p.ID,
			Err:      fmt.Errorf("fingerprint %s does not match stored tokens", p.VocabFingerprint),
		}
	}

	var model lda.Model
	if err := json.Unmarshal(p.Model, &model); err != nil {
		return nil, &internalerr.LoadError{Artifact: "model", Source: p.ID, Err: err}
	}

	labels, err := label.NewTable(p.Labels)
	if err != nil {
		return nil, &internalerr.LoadError{Artifact: "labels", Source: p.ID, Err: err}
	}

	b := &Bundle{
		ID:            p.ID,
		FormatVersion: p.FormatVersion,
		CreatedAt:     p.CreatedAt,
		Normalizer:    p.Normalizer.clone(),
		Vocabulary:    idx,
		Model:         &model,
		Labels:        labels,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// NotFound is the error backends return for a missing bundle.
func NotFound(id string) error {
	if id == "" {
		id = "latest"
	}
	return &internalerr.LoadError{Artifact: "bundle", Source: id, Err: internalerr.ErrNotFound}
}
