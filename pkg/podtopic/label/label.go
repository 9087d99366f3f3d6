// Package label maps topic indexes to human-readable labels and ranks
// topic distributions into top-k reports.
package label

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/topicmodel"
)

// DefaultK is the report length used when k <= 0.
const DefaultK = 5

// Podcast is the label table for the ten-topic podcast model.
var Podcast = []string{
	"Business",
	"Personal Journal",
	"Legal",
	"Religion/Spirituality",
	"Fitness/Self-Help",
	"Health",
	"World News",
	"Technology",
	"Sports",
	"Shopping/Hobbies",
}

// Table maps topic index i to its label. It is immutable.
type Table struct {
	labels []string
}

// NewTable creates a table where labels[i] names topic i.
func NewTable(labels []string) (Table, error) {
	for i, l := range labels {
		if strings.TrimSpace(l) == "" {
			return Table{}, fmt.Errorf("%w: topic %d has an empty label", internalerr.ErrInvalidConfig, i)
		}
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return Table{labels: out}, nil
}

// Len returns the number of labelled topics.
func (t Table) Len() int { return len(t.labels) }

// Label returns the label of topic.
func (t Table) Label(topic int) (string, bool) {
	if topic < 0 || topic >= len(t.labels) {
		return "", false
	}
	return t.labels[topic], true
}

// Labels returns a copy of all labels in topic order.
func (t Table) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// CheckTopics verifies there is exactly one label per model topic.
func (t Table) CheckTopics(numTopics int) error {
	if len(t.labels) != numTopics {
		return &internalerr.VocabularyMismatchError{
			Artifact: "labels",
			Want:     fmt.Sprintf("%d labels", numTopics),
			Got:      fmt.Sprintf("%d labels", len(t.labels)),
			Detail:   "one label per topic",
		}
	}
	return nil
}

// ShortResult decides what Rank does when fewer than k topics are present.
type ShortResult int

const (
	// Truncate returns every available entry.
	Truncate ShortResult = iota
	// Fail returns an *internalerr.InsufficientTopicsError.
	Fail
)

// ParseShortResult reads "truncate" or "fail".
func ParseShortResult(s string) (ShortResult, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "truncate":
		return Truncate, nil
	case "fail":
		return Fail, nil
	}
	return Truncate, fmt.Errorf("%w: unknown short result policy %q", internalerr.ErrInvalidConfig, s)
}

func (s ShortResult) String() string {
	if s == Fail {
		return "fail"
	}
	return "truncate"
}

// Entry is one ranked line of a report. Rank starts at 1.
type Entry struct {
	Rank  int     `json:"rank"`
	Topic int     `json:"topic"`
	Label string  `json:"label"`
	Prob  float64 `json:"probability"`
}

// Ranker turns distributions into ranked label entries.
type Ranker struct {
	Labels Table
	Policy ShortResult
}

// Rank sorts dist by probability, highest first, with equal probabilities
// ordered by ascending topic index, and labels the first k entries.
// Every topic in dist must have a label, even those beyond k.
func (r Ranker) Rank(dist topicmodel.Distribution, k int) ([]Entry, error) {
	if k <= 0 {
		k = DefaultK
	}

	for _, tp := range dist {
		if _, ok := r.Labels.Label(tp.Topic); !ok {
			return nil, &internalerr.UnknownTopicError{Topic: tp.Topic}
		}
	}

	if len(dist) < k {
		if r.Policy == Fail {
			return nil, &internalerr.InsufficientTopicsError{Have: len(dist), Want: k}
		}
		k = len(dist)
	}

	sorted := make(topicmodel.Distribution, len(dist))
	copy(sorted, dist)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Prob != sorted[j].Prob {
			return sorted[i].Prob > sorted[j].Prob
		}
		return sorted[i].Topic < sorted[j].Topic
	})

	entries := make([]Entry, k)
	for i := 0; i < k; i++ {
		name, _ := r.Labels.Label(sorted[i].Topic)
		entries[i] = Entry{Rank: i + 1, Topic: sorted[i].Topic, Label: name, Prob: sorted[i].Prob}
	}
	return entries, nil
}

// Rank is a convenience for Ranker{Labels: labels}.Rank(dist, k).
func Rank(dist topicmodel.Distribution, labels Table, k int) ([]Entry, error) {
	return Ranker{Labels: labels}.Rank(dist, k)
}

// Format renders entries in the "Top N Topics:" text layout.
func Format(entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d Topics:", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "\n%d: Topic: %s, Probability: %v", e.Rank, e.Label, e.Prob)
	}
	return b.String()
}
