package stoplist

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"
	"strings"
)

// Source records where a stop term came from.
type Source string

const (
	SourceEnglish   Source = "english"
	SourceDomain    Source = "domain"
	SourceCustom    Source = "custom"
	SourceSuggested Source = "suggested"
)

// Manager holds the stop term set used by the normalizer.
type Manager struct {
	stops map[string]Reason
}

// Reason explains why a token is a stopword
type Reason struct {
	Source    Source
	DF        int64   // document frequency, suggestions only
	DFPercent float64 // share of documents containing the token
	IDF       float64
}

// NewManager creates a new stoplist manager with custom terms.
func NewManager(initialStops []string) *Manager {
	m := &Manager{stops: make(map[string]Reason, len(initialStops))}
	m.AddAll(initialStops, SourceCustom)
	return m
}

// Default returns the English list unioned with the podcast exclusions.
func Default() *Manager {
	m := &Manager{stops: make(map[string]Reason, len(English)+len(PodcastExclusions))}
	m.AddAll(English, SourceEnglish)
	m.AddAll(PodcastExclusions, SourceDomain)
	return m
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[strings.ToLower(token)]
	return ok
}

// Add adds a token to the stoplist with a reason
func (m *Manager) Add(token string, reason Reason) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return
	}
	m.stops[token] = reason
}

// AddAll adds every term with the same source. Terms already present keep
// their original source.
func (m *Manager) AddAll(terms []string, src Source) {
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := m.stops[t]; ok {
			continue
		}
		m.stops[t] = Reason{Source: src}
	}
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, strings.ToLower(token))
}

// Reason returns why token is on the list.
func (m *Manager) Reason(token string) (Reason, bool) {
	r, ok := m.stops[strings.ToLower(token)]
	return r, ok
}

// Len returns the number of stop terms.
func (m *Manager) Len() int { return len(m.stops) }

// All returns all stopwords, sorted.
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// BySource returns the sorted terms that came from src.
func (m *Manager) BySource(src Source) []string {
	var result []string
	for s, r := range m.stops {
		if r.Source == src {
			result = append(result, s)
		}
	}
	sort.Strings(result)
	return result
}

// Fingerprint identifies the term set independent of insertion order.
func (m *Manager) Fingerprint() string {
	return Fingerprint(m.All())
}

// Fingerprint hashes a term list after sorting and de-duplicating it.
func Fingerprint(terms []string) string {
	uniq := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		uniq[strings.ToLower(t)] = struct{}{}
	}
	sorted := make([]string, 0, len(uniq))
	for t := range uniq {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)

	h := sha256.New()
	for _, t := range sorted {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Stats holds statistics for candidate evaluation
type Stats struct {
	Token     string
	DF        int64
	DFPercent float64
	IDF       float64
}

// NewStats derives percent and IDF from raw counts.
func NewStats(token string, df, totalDocs int64) Stats {
	s := Stats{Token: token, DF: df}
	if totalDocs > 0 {
		s.DFPercent = 100 * float64(df) / float64(totalDocs)
		s.IDF = math.Log(float64(totalDocs) / float64(df+1))
	}
	return s
}

// Candidate represents a candidate stopword
type Candidate struct {
	Token  string
	Reason Reason
	Score  float64 // DF share in [0,1]
}

// Thresholds defines criteria for exclusion suggestions
type Thresholds struct {
	DFPercent float64 // appears in more than this share of documents
	MinDocs   int64   // and in at least this many documents
}

// DefaultThresholds flags terms found in over 40% of descriptions.
func DefaultThresholds() Thresholds {
	return Thresholds{DFPercent: 40, MinDocs: 3}
}

// SuggestCandidates suggests corpus-wide filler terms that are not yet
// stopwords, most frequent first.
func (m *Manager) SuggestCandidates(stats []Stats, thresholds Thresholds) []Candidate {
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds()
	}

	var candidates []Candidate
	for _, s := range stats {
		if s.Token == "" || m.IsStop(s.Token) {
			continue
		}
		if s.DFPercent <= thresholds.DFPercent || s.DF < thresholds.MinDocs {
			continue
		}
		candidates = append(candidates, Candidate{
			Token: s.Token,
			Reason: Reason{
				Source:    SourceSuggested,
				DF:        s.DF,
				DFPercent: s.DFPercent,
				IDF:       s.IDF,
			},
			Score: s.DFPercent / 100.0,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Reason.DF != candidates[j].Reason.DF {
			return candidates[i].Reason.DF > candidates[j].Reason.DF
		}
		return candidates[i].Token < candidates[j].Token
	})
	return candidates
}
