package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/topicmodel"
)

func table(t *testing.T, labels ...string) Table {
	t.Helper()
	tbl, err := NewTable(labels)
	require.NoError(t, err)
	return tbl
}

func TestRankDescendingProbability(t *testing.T) {
	labels := table(t, "label0", "label1", "label2")
	dist := topicmodel.Distribution{{Topic: 0, Prob: 0.1}, {Topic: 1, Prob: 0.5}, {Topic: 2, Prob: 0.4}}

	entries, err := Rank(dist, labels, 2)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Rank: 1, Topic: 1, Label: "label1", Prob: 0.5},
		{Rank: 2, Topic: 2, Label: "label2", Prob: 0.4},
	}, entries)
}

func TestRankTiesByAscendingTopic(t *testing.T) {
	labels := table(t, "a", "b", "c", "d")
	dist := topicmodel.Distribution{{Topic: 3, Prob: 0.3}, {Topic: 1, Prob: 0.3}, {Topic: 0, Prob: 0.1}, {Topic: 2, Prob: 0.3}}

	entries, err := Rank(dist, labels, 4)
	require.NoError(t, err)
	got := make([]int, len(entries))
	for i, e := range entries {
		got[i] = e.Topic
	}
	assert.Equal(t, []int{1, 2, 3, 0}, got)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	labels := table(t, "a", "b")
	dist := topicmodel.Distribution{{Topic: 0, Prob: 0.2}, {Topic: 1, Prob: 0.8}}

	_, err := Rank(dist, labels, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, dist[0].Topic)
}

func TestRankUnknownTopic(t *testing.T) {
	labels := table(t, "a", "b")
	dist := topicmodel.Distribution{{Topic: 0, Prob: 0.6}, {Topic: 5, Prob: 0.1}}

	_, err := Rank(dist, labels, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, internalerr.ErrUnknownTopic)

	var ute *internalerr.UnknownTopicError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, 5, ute.Topic)
}

func TestRankShortDistributionTruncates(t *testing.T) {
	labels := table(t, Podcast...)
	dist := topicmodel.Distribution{{Topic: 4, Prob: 0.7}, {Topic: 5, Prob: 0.25}}

	entries, err := Ranker{Labels: labels}.Rank(dist, 5)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Fitness/Self-Help", entries[0].Label)
	assert.Equal(t, "Health", entries[1].Label)
}

func TestRankShortDistributionFails(t *testing.T) {
	labels := table(t, Podcast...)
	dist := topicmodel.Distribution{{Topic: 4, Prob: 0.7}}

	_, err := Ranker{Labels: labels, Policy: Fail}.Rank(dist, 5)
	require.Error(t, err)
	var ite *internalerr.InsufficientTopicsError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, 1, ite.Have)
	assert.Equal(t, 5, ite.Want)
}

func TestRankDefaultK(t *testing.T) {
	labels := table(t, Podcast...)
	dist := make(topicmodel.Distribution, 10)
	for i := range dist {
		dist[i] = topicmodel.TopicProb{Topic: i, Prob: float64(i) / 45}
	}

	entries, err := Rank(dist, labels, 0)
	require.NoError(t, err)
	require.Len(t, entries, DefaultK)
	assert.Equal(t, 9, entries[0].Topic)
	assert.Equal(t, 5, entries[4].Topic)
	assert.Equal(t, 5, entries[4].Rank)
}

func TestRankEmptyDistribution(t *testing.T) {
	entries, err := Rank(nil, table(t, "a"), 3)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewTable(t *testing.T) {
	_, err := NewTable([]string{"ok", "  "})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)

	src := []string{"a", "b"}
	tbl, err := NewTable(src)
	require.NoError(t, err)
	src[0] = "changed"
	l, ok := tbl.Label(0)
	assert.True(t, ok)
	assert.Equal(t, "a", l)
	_, ok = tbl.Label(2)
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, tbl.Labels())
}

func TestCheckTopics(t *testing.T) {
	tbl := table(t, Podcast...)
	assert.NoError(t, tbl.CheckTopics(10))
	assert.ErrorIs(t, tbl.CheckTopics(12), internalerr.ErrVocabularyMismatch)
}

func TestParseShortResult(t *testing.T) {
	p, err := ParseShortResult("FAIL")
	require.NoError(t, err)
	assert.Equal(t, Fail, p)
	assert.Equal(t, "fail", p.String())

	p, err = ParseShortResult("")
	require.NoError(t, err)
	assert.Equal(t, Truncate, p)

	_, err = ParseShortResult("explode")
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestFormat(t *testing.T) {
	out := Format([]Entry{
		{Rank: 1, Label: "Business", Prob: 0.5},
		{Rank: 2, Label: "Health", Prob: 0.25},
	})
	assert.Equal(t, "Top 2 Topics:\n1: Topic: Business, Probability: 0.5\n2: Topic: Health, Probability: 0.25", out)
}
