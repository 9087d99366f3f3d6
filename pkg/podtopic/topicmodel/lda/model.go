// Package lda provides a Latent Dirichlet Allocation topic model: offline
// training on top of github.com/james-bowman/nlp and a deterministic
// variational fold-in for query-time inference.
package lda

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/mathext"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/topicmodel"
	"github.com/cognicore/podtopic/pkg/podtopic/vocab"
)

// FormatVersion is the persisted model layout version.
const FormatVersion = 1

const (
	DefaultMinProbability = 0.01
	inferIterations       = 100
	inferTolerance        = 1e-5
)

var _ topicmodel.Model = (*Model)(nil)
var _ topicmodel.Describer = (*Model)(nil)

// Model is a trained topic over word distribution. Infer only reads the
// model, so a *Model may be shared by concurrent queries.
type Model struct {
	topics  *mat.Dense // numTopics x vocabSize, rows sum to 1
	alpha   float64
	minProb float64
	vocabFP string
}

// NewModel builds a model from topic-word weights. Each row is normalized
// to a probability distribution; rows must share one length.
func NewModel(topicWords [][]float64, alpha, minProb float64, vocabFingerprint string) (*Model, error) {
	if len(topicWords) == 0 {
		return nil, fmt.Errorf("%w: model needs at least one topic", internalerr.ErrInvalidInput)
	}
	v := len(topicWords[0])
	if v == 0 {
		return nil, fmt.Errorf("%w: model needs a non-empty vocabulary", internalerr.ErrInvalidInput)
	}
	if alpha <= 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, fmt.Errorf("%w: alpha must be positive, got %v", internalerr.ErrInvalidInput, alpha)
	}
	if minProb < 0 || minProb >= 1 {
		return nil, fmt.Errorf("%w: min probability must be in [0,1), got %v", internalerr.ErrInvalidInput, minProb)
	}

	topics := mat.NewDense(len(topicWords), v, nil)
	for k, row := range topicWords {
		if len(row) != v {
			return nil, fmt.Errorf("%w: topic %d has %d weights, want %d", internalerr.ErrInvalidInput, k, len(row), v)
		}
		for w, x := range row {
			if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("%w: topic %d word %d has weight %v", internalerr.ErrInvalidInput, k, w, x)
			}
		}
		topics.SetRow(k, normalizeRow(row))
	}

	return &Model{topics: topics, alpha: alpha, minProb: minProb, vocabFP: vocabFingerprint}, nil
}

func normalizeRow(row []float64) []float64 {
	out := make([]float64, len(row))
	sum := floats.Sum(row)
	if sum == 0 {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	for i, x := range row {
		out[i] = x / sum
	}
	return out
}

// NumTopics returns the number of topics.
func (m *Model) NumTopics() int {
	r, _ := m.topics.Dims()
	return r
}

// VocabSize returns the number of vocabulary ids the model was trained on.
func (m *Model) VocabSize() int {
	_, c := m.topics.Dims()
	return c
}

// Alpha returns the symmetric document-topic prior.
func (m *Model) Alpha() float64 { return m.alpha }

// MinProbability is the mass below which Infer omits a topic.
func (m *Model) MinProbability() float64 { return m.minProb }

// VocabularyFingerprint identifies the vocabulary the model was trained with.
func (m *Model) VocabularyFingerprint() string { return m.vocabFP }

// CheckVocabulary verifies that idx is the vocabulary the model was trained
// against.
func (m *Model) CheckVocabulary(idx *vocab.Index) error {
	if idx.Len() != m.VocabSize() {
		return &internalerr.VocabularyMismatchError{
			Artifact: "model",
			Want:     fmt.Sprintf("%d terms", m.VocabSize()),
			Got:      fmt.Sprintf("%d terms", idx.Len()),
			Detail:   "vocabulary size",
		}
	}
	if m.vocabFP != "" && m.vocabFP != idx.Fingerprint() {
		return &internalerr.VocabularyMismatchError{
			Artifact: "model",
			Want:     short(m.vocabFP),
			Got:      short(idx.Fingerprint()),
			Detail:   "vocabulary fingerprint",
		}
	}
	return nil
}

func short(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

// Topic returns a copy of the word distribution of topic k.
func (m *Model) Topic(k int) []float64 {
	return mat.Row(nil, k, m.topics)
}

// TopWords returns the n heaviest words of topic, ties broken by id.
func (m *Model) TopWords(topic, n int) []topicmodel.WordWeight {
	if topic < 0 || topic >= m.NumTopics() {
		return nil
	}
	row := m.topics.RawRowView(topic)
	words := make([]topicmodel.WordWeight, len(row))
	for id, w := range row {
		words[id] = topicmodel.WordWeight{ID: id, Weight: w}
	}
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Weight > words[j].Weight
	})
	if n > 0 && n < len(words) {
		words = words[:n]
	}
	return words
}

// Infer estimates the topic mixture of doc by iterating the variational
// update of the per-document Dirichlet parameters against the fixed topic
// matrix. Topics below MinProbability are left out; the result is in topic
// order. Ids outside the model vocabulary are ignored.
func (m *Model) Infer(doc vocab.BagOfWords) topicmodel.Distribution {
	k := m.NumTopics()
	v := m.VocabSize()

	var words vocab.BagOfWords
	for _, tc := range doc {
		if tc.ID >= 0 && tc.ID < v && tc.Count > 0 {
			words = append(words, tc)
		}
	}

	gamma := make([]float64, k)
	floats.AddConst(m.alpha+float64(words.Total())/float64(k), gamma)

	expElog := make([]float64, k)
	next := make([]float64, k)
	for iter := 0; iter < inferIterations; iter++ {
		dsum := mathext.Digamma(floats.Sum(gamma))
		for i := range gamma {
			expElog[i] = math.Exp(mathext.Digamma(gamma[i]) - dsum)
		}

		for i := range next {
			next[i] = m.alpha
		}
		for _, tc := range words {
			norm := 1e-100
			for i := 0; i < k; i++ {
				norm += expElog[i] * m.topics.At(i, tc.ID)
			}
			scale := float64(tc.Count) / norm
			for i := 0; i < k; i++ {
				next[i] += scale * expElog[i] * m.topics.At(i, tc.ID)
			}
		}

		change := floats.Distance(next, gamma, 1) / float64(k)
		copy(gamma, next)
		if change < inferTolerance {
			break
		}
	}

	floats.Scale(1/floats.Sum(gamma), gamma)

	dist := make(topicmodel.Distribution, 0, k)
	for i, p := range gamma {
		if p >= m.minProb {
			dist = append(dist, topicmodel.TopicProb{Topic: i, Prob: p})
		}
	}
	return dist
}

type modelJSON struct {
	Format           int         `json:"format"`
	NumTopics        int         `json:"num_topics"`
	VocabSize        int         `json:"vocab_size"`
	Alpha            float64     `json:"alpha"`
	MinProbability   float64     `json:"min_probability"`
	VocabFingerprint string      `json:"vocab_fingerprint"`
	Topics           [][]float64 `json:"topics"`
}

// MarshalJSON encodes the model with its format version.
func (m *Model) MarshalJSON() ([]byte, error) {
	k := m.NumTopics()
	rows := make([][]float64, k)
	for i := 0; i < k; i++ {
		rows[i] = m.Topic(i)
	}
	return json.Marshal(modelJSON{
		Format:           FormatVersion,
		NumTopics:        k,
		VocabSize:        m.VocabSize(),
		Alpha:            m.alpha,
		MinProbability:   m.minProb,
		VocabFingerprint: m.vocabFP,
		Topics:           rows,
	})
}

// UnmarshalJSON decodes and validates a model. m is untouched on error.
func (m *Model) UnmarshalJSON(data []byte) error {
	var raw modelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Format != FormatVersion {
		return fmt.Errorf("unsupported model format %d (want %d)", raw.Format, FormatVersion)
	}
	if len(raw.Topics) != raw.NumTopics {
		return fmt.Errorf("model declares %d topics but has %d", raw.NumTopics, len(raw.Topics))
	}
	if raw.NumTopics > 0 && len(raw.Topics[0]) != raw.VocabSize {
		return fmt.Errorf("model declares %d terms but has %d", raw.VocabSize, len(raw.Topics[0]))
	}
	decoded, err := NewModel(raw.Topics, raw.Alpha, raw.MinProbability, raw.VocabFingerprint)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

// Write encodes the model to w.
func (m *Model) Write(w io.Writer) error {
	return json.NewEncoder(w).Encode(m)
}

// Read decodes a model from r. Failures are *internalerr.LoadError.
func Read(r io.Reader, source string) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, &internalerr.LoadError{Artifact: "model", Source: source, Err: err}
	}
	return &m, nil
}

// Save writes the model to path.
func (m *Model) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("save model: %w", err)
	}
	return f.Close()
}

// Load reads a model saved with Save.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &internalerr.LoadError{Artifact: "model", Source: path, Err: err}
	}
	defer f.Close()
	return Read(f, path)
}
