package lda

import (
	"context"
	"fmt"

	"github.com/james-bowman/nlp"
	"github.com/james-bowman/sparse"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/vocab"
)

// Training defaults. Alpha is a fixed symmetric prior; there is no learned
// (auto) alpha.
const (
	DefaultNumTopics  = 10
	DefaultIterations = 300
	DefaultAlpha      = 0.1
	DefaultEta        = 0.01
)

// Trainer fits an LDA model. With a fixed Seed, corpus and vocabulary the
// result is reproducible: training runs in a single process so minibatch
// order never depends on scheduling.
type Trainer struct {
	NumTopics      int
	Seed           uint64
	Iterations     int
	Alpha          float64
	Eta            float64
	MinProbability float64
}

func (t Trainer) withDefaults() Trainer {
	if t.NumTopics <= 0 {
		t.NumTopics = DefaultNumTopics
	}
	if t.Iterations <= 0 {
		t.Iterations = DefaultIterations
	}
	if t.Alpha <= 0 {
		t.Alpha = DefaultAlpha
	}
	if t.Eta <= 0 {
		t.Eta = DefaultEta
	}
	if t.MinProbability <= 0 {
		t.MinProbability = DefaultMinProbability
	}
	return t
}

// Train fits a model to corpus, whose ids must come from idx. Empty
// documents are skipped; a corpus with no words at all is rejected.
func (t Trainer) Train(ctx context.Context, corpus []vocab.BagOfWords, idx *vocab.Index) (*Model, error) {
	t = t.withDefaults()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tdm, err := termDocMatrix(corpus, idx.Len())
	if err != nil {
		return nil, err
	}

	lda := nlp.NewLatentDirichletAllocation(t.NumTopics)
	lda.Iterations = t.Iterations
	lda.Alpha = t.Alpha
	lda.Eta = t.Eta
	lda.Processes = 1
	lda.Rnd = rand.New(rand.NewSource(t.Seed))

	if _, err := lda.FitTransform(tdm); err != nil {
		return nil, fmt.Errorf("fit lda: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return NewModel(rows(lda.Components()), t.Alpha, t.MinProbability, idx.Fingerprint())
}

// termDocMatrix lays the corpus out as terms x documents, the orientation
// nlp expects.
func termDocMatrix(corpus []vocab.BagOfWords, vocabSize int) (mat.Matrix, error) {
	if vocabSize == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", internalerr.ErrInvalidInput)
	}

	var docs []vocab.BagOfWords
	for _, bow := range corpus {
		if len(bow) > 0 {
			docs = append(docs, bow)
		}
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: corpus has no words", internalerr.ErrInvalidInput)
	}

	dok := sparse.NewDOK(vocabSize, len(docs))
	for j, bow := range docs {
		for _, tc := range bow {
			if tc.ID < 0 || tc.ID >= vocabSize {
				return nil, fmt.Errorf("%w: term id %d outside vocabulary of %d", internalerr.ErrInvalidInput, tc.ID, vocabSize)
			}
			dok.Set(tc.ID, j, float64(tc.Count))
		}
	}
	return dok.ToCSC(), nil
}

func rows(m mat.Matrix) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}
