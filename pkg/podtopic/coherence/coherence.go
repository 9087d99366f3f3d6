// Package coherence scores trained topics against the corpus they came
// from. Two measures are offered: c_npmi, the mean NPMI over word pairs,
// and c_v, the cosine of NPMI context vectors over sliding windows.
package coherence

import (
	"fmt"
	"math"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/normalize"
	"github.com/cognicore/podtopic/pkg/podtopic/pmi"
	"github.com/cognicore/podtopic/pkg/podtopic/topicmodel"
	"github.com/cognicore/podtopic/pkg/podtopic/vocab"
)

// DefaultTopN is the number of top words per topic that are paired up.
const DefaultTopN = 10

// DefaultWindow is the c_v sliding window, in tokens.
const DefaultWindow = 110

// Measure names a coherence measure.
type Measure string

const (
	NPMI Measure = "c_npmi"
	CV   Measure = "c_v"
)

// ParseMeasure accepts "c_npmi", "c_v" or "" (c_npmi).
func ParseMeasure(s string) (Measure, error) {
	switch Measure(s) {
	case "", NPMI:
		return NPMI, nil
	case CV:
		return CV, nil
	}
	return "", fmt.Errorf("coherence: unknown measure %q: %w", s, internalerr.ErrInvalidInput)
}

// Options tune a coherence run. Zero values take the defaults.
type Options struct {
	TopN    int
	Measure Measure
	Window  int // c_v only
}

// Model is what coherence needs from a trained topic model.
type Model interface {
	NumTopics() int
	topicmodel.Describer
}

// Score returns the mean NPMI over all pairs of each topic's topN words,
// averaged over topics. texts are normalized documents; co-occurrence is
// counted once per document.
func Score(m Model, texts []string, vocabulary *vocab.Index, topN int) (float64, error) {
	perTopic, err := ScoreTopics(m, texts, vocabulary, topN)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, s := range perTopic {
		sum += s
	}
	return sum / float64(len(perTopic)), nil
}

// ScoreTopics returns one c_npmi value per topic, in topic order.
func ScoreTopics(m Model, texts []string, vocabulary *vocab.Index, topN int) ([]float64, error) {
	return ScoreTopicsWith(m, texts, vocabulary, Options{TopN: topN})
}

// ScoreTopicsWith returns one value per topic under opts.Measure.
func ScoreTopicsWith(m Model, texts []string, vocabulary *vocab.Index, opts Options) ([]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("coherence: empty corpus: %w", internalerr.ErrInvalidInput)
	}
	if m.NumTopics() == 0 {
		return nil, fmt.Errorf("coherence: model has no topics: %w", internalerr.ErrInvalidInput)
	}
	measure, err := ParseMeasure(string(opts.Measure))
	if err != nil {
		return nil, err
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	tops := make([][]string, m.NumTopics())
	var watch []string
	for k := range tops {
		for _, ww := range m.TopWords(k, topN) {
			tok, ok := vocabulary.Token(ww.ID)
			if !ok {
				return nil, fmt.Errorf("coherence: topic %d word id %d outside vocabulary: %w",
					k, ww.ID, internalerr.ErrVocabularyMismatch)
			}
			tops[k] = append(tops[k], tok)
			watch = append(watch, tok)
		}
	}

	counter := pmi.NewCounter(watch...)
	calc := pmi.NewCalculator(pmi.DefaultEpsilon)
	scores := make([]float64, len(tops))

	if measure == CV {
		window := opts.Window
		if window <= 0 {
			window = DefaultWindow
		}
		for _, text := range texts {
			for _, w := range windows(normalize.Tokens(text), window) {
				counter.AddDocument(w)
			}
		}
		for k, words := range tops {
			scores[k] = cv(counter, calc, words)
		}
		return scores, nil
	}

	for _, text := range texts {
		counter.AddDocument(normalize.Tokens(text))
	}
	for k, words := range tops {
		var sum float64
		var pairs int
		for i := 1; i < len(words); i++ {
			for j := 0; j < i; j++ {
				sum += counter.PairNPMI(calc, words[i], words[j])
				pairs++
			}
		}
		if pairs > 0 {
			scores[k] = sum / float64(pairs)
		}
	}
	return scores, nil
}

// windows splits tokens into the overlapping windows of size that c_v
// counts as documents. Texts no longer than size form one window; empty
// texts form none.
func windows(tokens []string, size int) [][]string {
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) <= size {
		return [][]string{tokens}
	}
	out := make([][]string, 0, len(tokens)-size+1)
	for i := 0; i+size <= len(tokens); i++ {
		out = append(out, tokens[i:i+size])
	}
	return out
}

// cv compares each word's NPMI vector against the topic's summed vector
// and averages the cosines.
func cv(counter *pmi.Counter, calc *pmi.Calculator, words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	vecs := make([][]float64, len(words))
	total := make([]float64, len(words))
	for i, a := range words {
		vecs[i] = make([]float64, len(words))
		for j, b := range words {
			var v float64
			if i == j {
				n := counter.GetTokenCount(a)
				v = calc.NPMI(n, n, n, counter.TotalDocs())
			} else {
				v = counter.PairNPMI(calc, a, b)
			}
			vecs[i][j] = v
			total[j] += v
		}
	}

	var sum float64
	for _, v := range vecs {
		sum += cosine(v, total)
	}
	return sum / float64(len(words))
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
