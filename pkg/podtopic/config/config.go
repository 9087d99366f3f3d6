package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
)

// Pipeline is the on-disk pipeline configuration.
type Pipeline struct {
	Normalizer Normalizer `yaml:"normalizer" toml:"normalizer"`
	Labels     []string   `yaml:"labels" toml:"labels"`
	Training   Training   `yaml:"training" toml:"training"`
	Query      Query      `yaml:"query" toml:"query"`
	WordCloud  WordCloud  `yaml:"wordcloud" toml:"wordcloud"`
	Coherence  Coherence  `yaml:"coherence" toml:"coherence"`
}

// Normalizer selects the stop terms.
type Normalizer struct {
	StopwordsFile string   `yaml:"stopwords_file" toml:"stopwords_file"`
	Stopwords     []string `yaml:"stopwords" toml:"stopwords"`
	UseEnglish    *bool    `yaml:"use_english" toml:"use_english"`
	// Exclusions replaces the built-in podcast exclusions when present,
	// including when present and empty.
	Exclusions []string `yaml:"exclusions" toml:"exclusions"`
}

// Training holds topic model options. Zero values take the trainer defaults.
type Training struct {
	NumTopics      int     `yaml:"num_topics" toml:"num_topics"`
	Seed           uint64  `yaml:"seed" toml:"seed"`
	Iterations     int     `yaml:"iterations" toml:"iterations"`
	Alpha          float64 `yaml:"alpha" toml:"alpha"`
	Eta            float64 `yaml:"eta" toml:"eta"`
	MinProbability float64 `yaml:"min_probability" toml:"min_probability"`
	// Cloud makes train also write the word cloud to wordcloud.output.
	Cloud bool `yaml:"cloud" toml:"cloud"`
}

// Query holds ranking options.
type Query struct {
	TopK        int    `yaml:"top_k" toml:"top_k"`
	ShortResult string `yaml:"short_result" toml:"short_result"`
}

// WordCloud holds word cloud options.
type WordCloud struct {
	MaxWords      int    `yaml:"max_words" toml:"max_words"`
	MinWordLength int    `yaml:"min_word_length" toml:"min_word_length"`
	Output        string `yaml:"output" toml:"output"`
}

// Coherence selects the evaluation measure.
type Coherence struct {
	Measure string `yaml:"measure" toml:"measure"` // c_v (default) or c_npmi
	TopN    int    `yaml:"top_n" toml:"top_n"`
	Window  int    `yaml:"window" toml:"window"`
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms" toml:"terms"`
}

// LoadPipeline loads a pipeline config from a YAML or TOML file.
func LoadPipeline(path string) (*Pipeline, error) {
	var p Pipeline
	if err := decodeFile(path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadStoplist loads stopwords from a YAML or TOML file
func LoadStoplist(path string) (*Stoplist, error) {
	var sl Stoplist
	if err := decodeFile(path, &sl); err != nil {
		return nil, err
	}
	return &sl, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	case ".toml":
		err = toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %s: unsupported extension %q", internalerr.ErrInvalidConfig, path, ext)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	return nil
}
