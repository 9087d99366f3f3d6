// Package storetest holds fixtures and a behavior suite shared by every
// store backend.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/label"
	"github.com/cognicore/podtopic/pkg/podtopic/stoplist"
	"github.com/cognicore/podtopic/pkg/podtopic/store"
	"github.com/cognicore/podtopic/pkg/podtopic/topicmodel/lda"
	"github.com/cognicore/podtopic/pkg/podtopic/vocab"
)

// Bundle returns a small valid two-topic bundle.
func Bundle(t testing.TB, id string, created time.Time) *store.Bundle {
	t.Helper()

	idx := vocab.Build([]string{"stocks money market", "gym diet protein"})
	model, err := lda.NewModel([][]float64{
		{4, 4, 4, 0.1, 0.1, 0.1},
		{0.1, 0.1, 0.1, 4, 4, 4},
	}, 0.1, 0.01, idx.Fingerprint())
	require.NoError(t, err)

	labels, err := label.NewTable([]string{"Business", "Fitness/Self-Help"})
	require.NoError(t, err)

	stops := []string{"and", "podcast", "the"}
	return &store.Bundle{
		ID:            id,
		FormatVersion: store.FormatVersion,
		CreatedAt:     created.UTC(),
		Normalizer: store.NormalizerConfig{
			Stopwords:   stops,
			Exclusions:  []string{"podcast"},
			Fingerprint: stoplist.Fingerprint(stops),
		},
		Vocabulary: idx,
		Model:      model,
		Labels:     labels,
	}
}

// Run exercises a backend. open must return a fresh, empty store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("RoundTrip", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		want := Bundle(t, "b1", base)
		require.NoError(t, st.SaveBundle(ctx, want))

		got, err := st.LoadBundle(ctx, "b1")
		require.NoError(t, err)
		AssertSameBundle(t, want, got)
	})

	t.Run("LatestByCreatedAt", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		require.NoError(t, st.SaveBundle(ctx, Bundle(t, "old", base)))
		require.NoError(t, st.SaveBundle(ctx, Bundle(t, "new", base.Add(time.Hour))))

		got, err := st.LoadBundle(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "new", got.ID)

		list, err := st.ListBundles(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "new", list[0].ID)
		assert.Equal(t, "old", list[1].ID)
		assert.Equal(t, 2, list[0].NumTopics)
		assert.Equal(t, 6, list[0].VocabSize)
	})

	t.Run("Missing", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		_, err := st.LoadBundle(ctx, "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, internalerr.ErrLoad)
		assert.ErrorIs(t, err, internalerr.ErrNotFound)

		_, err = st.LoadBundle(ctx, "")
		assert.ErrorIs(t, err, internalerr.ErrNotFound)

		list, err := st.ListBundles(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("RejectsMismatchedBundle", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		b := Bundle(t, "bad", base)
		short, err := label.NewTable([]string{"only one"})
		require.NoError(t, err)
		b.Labels = short

		err = st.SaveBundle(ctx, b)
		assert.ErrorIs(t, err, internalerr.ErrVocabularyMismatch)

		_, err = st.LoadBundle(ctx, "bad")
		assert.ErrorIs(t, err, internalerr.ErrNotFound)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		require.NoError(t, st.SaveBundle(ctx, Bundle(t, "dup", base)))
		err := st.SaveBundle(ctx, Bundle(t, "dup", base))
		assert.ErrorIs(t, err, internalerr.ErrDuplicate)
	})
}

// AssertSameBundle compares the observable content of two bundles.
func AssertSameBundle(t testing.TB, want, got *store.Bundle) {
	t.Helper()

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, store.FormatVersion, got.FormatVersion)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created %v != %v", want.CreatedAt, got.CreatedAt)
	assert.Equal(t, want.Normalizer, got.Normalizer)
	assert.True(t, want.Vocabulary.Equal(got.Vocabulary))
	assert.Equal(t, want.Labels.Labels(), got.Labels.Labels())
	assert.Equal(t, want.Model.NumTopics(), got.Model.NumTopics())
	for k := 0; k < want.Model.NumTopics(); k++ {
		assert.InDeltaSlice(t, want.Model.Topic(k), got.Model.Topic(k), 1e-12)
	}
	assert.Equal(t, want.Model.VocabularyFingerprint(), got.Model.VocabularyFingerprint())
}
