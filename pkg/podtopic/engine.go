package podtopic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/podtopic/pkg/podtopic/coherence"
	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/label"
	"github.com/cognicore/podtopic/pkg/podtopic/normalize"
	"github.com/cognicore/podtopic/pkg/podtopic/store"
)

// Engine answers topic queries against one loaded bundle. It holds no
// mutable state, so one Engine may serve concurrent queries.
type Engine struct {
	bundle     *store.Bundle
	normalizer *normalize.Normalizer
	ranker     label.Ranker
}

// Open loads bundle id from st ("" for the newest) and returns an engine
// using the Truncate short-result policy.
func Open(ctx context.Context, st store.Store, id string) (*Engine, error) {
	b, err := st.LoadBundle(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewEngine(b, label.Truncate)
}

// NewEngine validates b and wraps it.
func NewEngine(b *store.Bundle, policy label.ShortResult) (*Engine, error) {
	if b == nil {
		return nil, fmt.Errorf("engine: nil bundle: %w", internalerr.ErrInvalidInput)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	n := b.Normalizer.NewNormalizer()
	if n.Fingerprint() != b.Normalizer.Fingerprint {
		return nil, &internalerr.VocabularyMismatchError{
			Artifact: "normalizer",
			Want:     b.Normalizer.Fingerprint,
			Got:      n.Fingerprint(),
			Detail:   "rebuilt normalizer",
		}
	}
	return &Engine{
		bundle:     b,
		normalizer: n,
		ranker:     label.Ranker{Labels: b.Labels, Policy: policy},
	}, nil
}

// WithShortResult returns a copy of e using policy.
func (e *Engine) WithShortResult(policy label.ShortResult) *Engine {
	cp := *e
	cp.ranker.Policy = policy
	return &cp
}

// Bundle returns the bundle the engine serves.
func (e *Engine) Bundle() *store.Bundle { return e.bundle }

// Report is a ranked answer to one query.
type Report struct {
	Query      string        `json:"query"`
	Normalized string        `json:"normalized"`
	Unknown    []string      `json:"unknown,omitempty"` // tokens outside the vocabulary
	Entries    []label.Entry `json:"topics"`
}

// String renders the report in the "Top N Topics:" layout.
func (r Report) String() string {
	return label.Format(r.Entries)
}

// Query ranks the k most likely topics of raw text; k <= 0 means 5.
func (e *Engine) Query(raw string, k int) (Report, error) {
	start := time.Now()
	defer QueryTimer.UpdateSince(start)

	rep := Report{Query: raw, Normalized: e.normalizer.Normalize(raw)}
	tokens := normalize.Tokens(rep.Normalized)
	QueryTokens.Update(int64(len(tokens)))
	for _, tok := range tokens {
		if _, ok := e.bundle.Vocabulary.ID(tok); !ok {
			rep.Unknown = append(rep.Unknown, tok)
		}
	}
	UnknownTokens.Inc(int64(len(rep.Unknown)))

	dist := e.bundle.Model.Infer(e.bundle.Vocabulary.ToBagOfWords(rep.Normalized))
	entries, err := e.ranker.Rank(dist, k)
	if err != nil {
		return Report{}, err
	}
	rep.Entries = entries
	return rep, nil
}

// TopicWord is one of a topic's heaviest words.
type TopicWord struct {
	Word   string  `json:"word"`
	Weight float64 `json:"weight"`
}

// TopicSummary lists a topic's label and top words.
type TopicSummary struct {
	Topic int         `json:"topic"`
	Label string      `json:"label"`
	Words []TopicWord `json:"words"`
}

// String renders the summary as weighted terms, heaviest first.
func (s TopicSummary) String() string {
	parts := make([]string, len(s.Words))
	for i, w := range s.Words {
		parts[i] = fmt.Sprintf("%.3f*%q", w.Weight, w.Word)
	}
	return strings.Join(parts, " + ")
}

// Topics returns every topic with its n heaviest words.
func (e *Engine) Topics(n int) []TopicSummary {
	m := e.bundle.Model
	out := make([]TopicSummary, m.NumTopics())
	for k := range out {
		name, _ := e.bundle.Labels.Label(k)
		out[k] = TopicSummary{Topic: k, Label: name}
		for _, ww := range m.TopWords(k, n) {
			word, _ := e.bundle.Vocabulary.Token(ww.ID)
			out[k].Words = append(out[k].Words, TopicWord{Word: word, Weight: ww.Weight})
		}
	}
	return out
}

// CoherenceReport is the coherence of a model on a corpus.
type CoherenceReport struct {
	Measure  coherence.Measure `json:"measure"`
	Mean     float64           `json:"mean"`
	PerTopic []float64         `json:"per_topic"`
}

// Coherence normalizes raw with the bundle's normalizer and scores the
// model's top words per topic against it. A zero opts.Measure is c_npmi.
func (e *Engine) Coherence(raw []string, opts coherence.Options) (CoherenceReport, error) {
	texts := e.normalizer.NormalizeAll(raw)
	per, err := coherence.ScoreTopicsWith(e.bundle.Model, texts, e.bundle.Vocabulary, opts)
	if err != nil {
		return CoherenceReport{}, err
	}
	measure := opts.Measure
	if measure == "" {
		measure = coherence.NPMI
	}
	var sum float64
	for _, s := range per {
		sum += s
	}
	return CoherenceReport{Measure: measure, Mean: sum / float64(len(per)), PerTopic: per}, nil
}
