package config

import (
	"fmt"

	"github.com/cognicore/podtopic/pkg/podtopic/coherence"
	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/label"
	"github.com/cognicore/podtopic/pkg/podtopic/normalize"
	"github.com/cognicore/podtopic/pkg/podtopic/stoplist"
	"github.com/cognicore/podtopic/pkg/podtopic/topicmodel/lda"
)

// Word cloud defaults.
const (
	DefaultMaxWords      = 50
	DefaultMinWordLength = 2
	DefaultCloudOutput   = "wordcloud.html"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	ConfigPath   string // pipeline config; empty means all defaults
	StoplistPath string // extra stop terms file ("terms: [...]")
}

// Components holds all loaded configuration components
type Components struct {
	Stoplist    *stoplist.Manager
	Normalizer  *normalize.Normalizer
	Labels      label.Table
	Trainer     lda.Trainer
	TopK        int
	ShortResult label.ShortResult
	WordCloud   WordCloud
	TrainCloud  bool
	Coherence   coherence.Options
}

// Exclusions returns the domain exclusion terms in effect.
func (c *Components) Exclusions() []string {
	return c.Stoplist.BySource(stoplist.SourceDomain)
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	p := &Pipeline{}
	if l.ConfigPath != "" {
		loaded, err := LoadPipeline(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load pipeline: %w", err)
		}
		p = loaded
	}

	stops, err := l.buildStoplist(p.Normalizer)
	if err != nil {
		return nil, err
	}

	comp := &Components{
		Stoplist:   stops,
		Normalizer: normalize.FromStoplist(stops),
		TopK:       p.Query.TopK,
		WordCloud:  p.WordCloud,
		TrainCloud: p.Training.Cloud,
	}

	names := p.Labels
	if len(names) == 0 {
		names = label.Podcast
	}
	if comp.Labels, err = label.NewTable(names); err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}

	comp.Trainer = lda.Trainer{
		NumTopics:      p.Training.NumTopics,
		Seed:           p.Training.Seed,
		Iterations:     p.Training.Iterations,
		Alpha:          p.Training.Alpha,
		Eta:            p.Training.Eta,
		MinProbability: p.Training.MinProbability,
	}
	if comp.Trainer.NumTopics == 0 {
		comp.Trainer.NumTopics = comp.Labels.Len()
	}
	if comp.Trainer.NumTopics != comp.Labels.Len() {
		return nil, fmt.Errorf("%w: %d labels for %d topics", internalerr.ErrInvalidConfig,
			comp.Labels.Len(), comp.Trainer.NumTopics)
	}

	if comp.ShortResult, err = label.ParseShortResult(p.Query.ShortResult); err != nil {
		return nil, fmt.Errorf("load query: %w", err)
	}
	if comp.TopK < 0 {
		return nil, fmt.Errorf("%w: top_k %d", internalerr.ErrInvalidConfig, comp.TopK)
	}
	if comp.TopK == 0 {
		comp.TopK = label.DefaultK
	}

	if comp.WordCloud.MaxWords <= 0 {
		comp.WordCloud.MaxWords = DefaultMaxWords
	}
	if comp.WordCloud.MinWordLength <= 0 {
		comp.WordCloud.MinWordLength = DefaultMinWordLength
	}
	if comp.WordCloud.Output == "" {
		comp.WordCloud.Output = DefaultCloudOutput
	}

	comp.Coherence = coherence.Options{
		Measure: coherence.CV,
		TopN:    p.Coherence.TopN,
		Window:  p.Coherence.Window,
	}
	if p.Coherence.Measure != "" {
		if comp.Coherence.Measure, err = coherence.ParseMeasure(p.Coherence.Measure); err != nil {
			return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
		}
	}
	if comp.Coherence.TopN <= 0 {
		comp.Coherence.TopN = coherence.DefaultTopN
	}
	if comp.Coherence.Window <= 0 {
		comp.Coherence.Window = coherence.DefaultWindow
	}

	return comp, nil
}

func (l *Loader) buildStoplist(n Normalizer) (*stoplist.Manager, error) {
	m := stoplist.NewManager(nil)
	if n.UseEnglish == nil || *n.UseEnglish {
		m.AddAll(stoplist.English, stoplist.SourceEnglish)
	}
	if n.Exclusions == nil {
		m.AddAll(stoplist.PodcastExclusions, stoplist.SourceDomain)
	} else {
		m.AddAll(n.Exclusions, stoplist.SourceDomain)
	}
	m.AddAll(n.Stopwords, stoplist.SourceCustom)

	for _, path := range []string{n.StopwordsFile, l.StoplistPath} {
		if path == "" {
			continue
		}
		sl, err := LoadStoplist(path)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		m.AddAll(sl.Terms, stoplist.SourceCustom)
	}
	return m, nil
}
