package stoplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerBasic(t *testing.T) {
	mgr := NewManager([]string{"the", "a", "And"})

	assert.True(t, mgr.IsStop("the"))
	assert.True(t, mgr.IsStop("and"))
	assert.True(t, mgr.IsStop("AND"))
	assert.False(t, mgr.IsStop("hello"))
	assert.Equal(t, 3, mgr.Len())
}

func TestManagerAddRemove(t *testing.T) {
	mgr := NewManager([]string{"the"})

	mgr.Add("test", Reason{Source: SourceSuggested})
	assert.True(t, mgr.IsStop("test"))

	r, ok := mgr.Reason("test")
	require.True(t, ok)
	assert.Equal(t, SourceSuggested, r.Source)

	mgr.Remove("test")
	assert.False(t, mgr.IsStop("test"))

	mgr.Add("   ", Reason{})
	assert.Equal(t, 1, mgr.Len())
}

func TestDefaultUnionsEnglishAndDomain(t *testing.T) {
	mgr := Default()

	assert.Len(t, English, 179)
	assert.Len(t, PodcastExclusions, 22)

	r, ok := mgr.Reason("and")
	require.True(t, ok)
	assert.Equal(t, SourceEnglish, r.Source)

	r, ok = mgr.Reason("podcast")
	require.True(t, ok)
	assert.Equal(t, SourceDomain, r.Source)

	assert.Equal(t, 179+22, mgr.Len())
	assert.Contains(t, mgr.BySource(SourceDomain), "radio")
	assert.Contains(t, mgr.BySource(SourceDomain), "us")
}

func TestAddAllKeepsFirstSource(t *testing.T) {
	mgr := Default()
	mgr.AddAll([]string{"podcast", "episode"}, SourceCustom)

	r, _ := mgr.Reason("podcast")
	assert.Equal(t, SourceDomain, r.Source)
	r, _ = mgr.Reason("episode")
	assert.Equal(t, SourceCustom, r.Source)
}

func TestAllIsSorted(t *testing.T) {
	mgr := NewManager([]string{"zeta", "alpha", "mid"})
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, mgr.All())
}

func TestFingerprintIgnoresOrderAndCase(t *testing.T) {
	a := Fingerprint([]string{"b", "a", "c"})
	b := Fingerprint([]string{"C", "a", "b", "a"})
	c := Fingerprint([]string{"a", "b"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, NewManager([]string{"c", "b", "a"}).Fingerprint(), a)
}

func TestNewStats(t *testing.T) {
	s := NewStats("show", 30, 60)
	assert.Equal(t, int64(30), s.DF)
	assert.InDelta(t, 50.0, s.DFPercent, 1e-9)
	assert.Greater(t, s.IDF, 0.0)

	empty := NewStats("x", 0, 0)
	assert.Zero(t, empty.DFPercent)
}

func TestSuggestCandidates(t *testing.T) {
	mgr := NewManager([]string{"the"})

	stats := []Stats{
		NewStats("the", 95, 100),     // already a stopword
		NewStats("episode", 80, 100), // candidate
		NewStats("weekly", 55, 100),  // candidate
		NewStats("football", 10, 100),
		NewStats("welcome", 55, 100), // candidate, ties with weekly on DF
	}

	candidates := mgr.SuggestCandidates(stats, Thresholds{DFPercent: 50, MinDocs: 3})
	require.Len(t, candidates, 3)

	assert.Equal(t, "episode", candidates[0].Token)
	assert.Equal(t, "weekly", candidates[1].Token)
	assert.Equal(t, "welcome", candidates[2].Token)
	assert.Equal(t, SourceSuggested, candidates[0].Reason.Source)
	assert.InDelta(t, 0.8, candidates[0].Score, 1e-9)
}

func TestSuggestCandidatesMinDocs(t *testing.T) {
	mgr := NewManager(nil)

	// 2 of 3 documents is a high share but too few documents to trust
	candidates := mgr.SuggestCandidates([]Stats{NewStats("rare", 2, 3)}, Thresholds{DFPercent: 40, MinDocs: 3})
	assert.Empty(t, candidates)

	candidates = mgr.SuggestCandidates([]Stats{NewStats("common", 5, 6)}, Thresholds{})
	require.Len(t, candidates, 1)
	assert.Equal(t, "common", candidates[0].Token)
}
