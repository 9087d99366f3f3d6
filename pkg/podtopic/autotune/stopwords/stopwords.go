package stopwords

import (
	"context"
	"errors"
	"sort"

	"github.com/cognicore/podtopic/pkg/podtopic/normalize"
	"github.com/cognicore/podtopic/pkg/podtopic/pmi"
	"github.com/cognicore/podtopic/pkg/podtopic/stoplist"
)

// StatsProvider exposes the aggregated metrics required for stopword tuning.
type StatsProvider interface {
	StopwordStats(ctx context.Context) ([]stoplist.Stats, error)
}

// Reviewer optionally performs an extra approval step (human or LLM).
type Reviewer interface {
	Approve(ctx context.Context, cand stoplist.Candidate) (bool, error)
}

// AutoTuner produces ranked exclusion suggestions from corpus statistics.
type AutoTuner struct {
	Provider   StatsProvider
	Manager    *stoplist.Manager
	Thresholds stoplist.Thresholds
	Reviewer   Reviewer // optional
}

// Run collects stats, produces candidates, optionally routes them through the reviewer,
// and returns approved suggestions.
func (t *AutoTuner) Run(ctx context.Context) ([]stoplist.Candidate, error) {
	if t.Provider == nil {
		return nil, errors.New("stopwords autotune: nil stats provider")
	}
	if t.Manager == nil {
		return nil, errors.New("stopwords autotune: nil manager")
	}

	stats, err := t.Provider.StopwordStats(ctx)
	if err != nil {
		return nil, err
	}

	candidates := t.Manager.SuggestCandidates(stats, t.thresholdsOrDefault())
	if len(candidates) == 0 || t.Reviewer == nil {
		return candidates, nil
	}

	var approved []stoplist.Candidate
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := t.Reviewer.Approve(ctx, cand)
		if err != nil {
			return nil, err
		}
		if ok {
			approved = append(approved, cand)
		}
	}
	return approved, nil
}

func (t *AutoTuner) thresholdsOrDefault() stoplist.Thresholds {
	if t.Thresholds == (stoplist.Thresholds{}) {
		return stoplist.DefaultThresholds()
	}
	return t.Thresholds
}

// CorpusStats computes document frequencies over raw texts cleaned by
// Normalizer. Terms the normalizer already drops never show up.
type CorpusStats struct {
	Normalizer *normalize.Normalizer
	Texts      []string
}

// StopwordStats implements StatsProvider. Stats are sorted by token.
func (c CorpusStats) StopwordStats(ctx context.Context) ([]stoplist.Stats, error) {
	counter := pmi.NewDFCounter()
	for _, text := range c.Texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		counter.AddDocument(normalize.Tokens(c.Normalizer.Normalize(text)))
	}

	stats := make([]stoplist.Stats, 0, counter.UniqueTokens())
	for tok, df := range counter.Nx {
		stats = append(stats, stoplist.NewStats(tok, df, counter.TotalDocs()))
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Token < stats[j].Token })
	return stats, nil
}
