// Package podtopic ties normalization, vocabulary, topic model and labels
// together: Builder trains an artifact bundle, Engine answers queries
// against one.
package podtopic

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/label"
	"github.com/cognicore/podtopic/pkg/podtopic/normalize"
	"github.com/cognicore/podtopic/pkg/podtopic/stoplist"
	"github.com/cognicore/podtopic/pkg/podtopic/store"
	"github.com/cognicore/podtopic/pkg/podtopic/topicmodel/lda"
	"github.com/cognicore/podtopic/pkg/podtopic/vocab"
)

// CloudSink receives the normalized training corpus, e.g. to draw a word
// cloud. Its errors never abort a build.
type CloudSink interface {
	Write(normalizedTexts []string) error
}

// Builder trains a bundle from raw documents. The zero value trains with
// the default stop terms, 10 topics and the podcast labels.
type Builder struct {
	Normalizer *normalize.Normalizer
	Exclusions []string // domain terms among the normalizer's stop terms
	Trainer    lda.Trainer
	Labels     label.Table
	Cloud      CloudSink // optional

	Now func() time.Time // for tests; defaults to time.Now
}

// Result is the immutable output of a build.
type Result struct {
	bundle     *store.Bundle
	normalized []string
	corpus     []vocab.BagOfWords
	cloudErr   error
}

// Bundle returns the trained artifact bundle.
func (r *Result) Bundle() *store.Bundle { return r.bundle }

// NormalizedTexts returns the cleaned training documents, in input order.
func (r *Result) NormalizedTexts() []string {
	return append([]string(nil), r.normalized...)
}

// Corpus returns the training bag-of-words vectors, one per document.
func (r *Result) Corpus() []vocab.BagOfWords {
	out := make([]vocab.BagOfWords, len(r.corpus))
	for i, doc := range r.corpus {
		out[i] = append(vocab.BagOfWords(nil), doc...)
	}
	return out
}

// CloudErr is the word cloud sink failure, if any.
func (r *Result) CloudErr() error { return r.cloudErr }

var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.Reader, 0)
)

func newBundleID(t time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), idEntropy).String()
}

// Build normalizes raw, builds the vocabulary and corpus, trains the model
// and returns a validated bundle. Training order fixes vocabulary ids, so
// raw must be given in a stable order for reproducible artifacts.
func (b *Builder) Build(ctx context.Context, raw []string) (*Result, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("build: no documents: %w", internalerr.ErrInvalidInput)
	}

	n := b.Normalizer
	exclusions := b.Exclusions
	if n == nil {
		defaults := stoplist.Default()
		n = normalize.FromStoplist(defaults)
		exclusions = defaults.BySource(stoplist.SourceDomain)
	}
	labels := b.Labels
	if labels.Len() == 0 {
		var err error
		if labels, err = label.NewTable(label.Podcast); err != nil {
			return nil, err
		}
	}
	trainer := b.Trainer
	if trainer.NumTopics == 0 {
		trainer.NumTopics = labels.Len()
	}
	if err := labels.CheckTopics(trainer.NumTopics); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	normalized := n.NormalizeAll(raw)
	DocsNormalized.Mark(int64(len(normalized)))

	var cloudErr error
	if b.Cloud != nil {
		cloudErr = b.Cloud.Write(normalized)
	}

	idx := vocab.Build(normalized)
	corpus := idx.Corpus(normalized)

	start := time.Now()
	model, err := trainer.Train(ctx, corpus, idx)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	TrainTimer.UpdateSince(start)

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	created := now().UTC()

	bundle := &store.Bundle{
		ID:            newBundleID(created),
		FormatVersion: store.FormatVersion,
		CreatedAt:     created,
		Normalizer: store.NormalizerConfig{
			Stopwords:   n.Terms(),
			Exclusions:  append([]string(nil), exclusions...),
			Fingerprint: n.Fingerprint(),
		},
		Vocabulary: idx,
		Model:      model,
		Labels:     labels,
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	return &Result{
		bundle:     bundle,
		normalized: normalized,
		corpus:     corpus,
		cloudErr:   cloudErr,
	}, nil
}
