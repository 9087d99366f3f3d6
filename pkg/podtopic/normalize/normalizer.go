// Package normalize turns raw descriptions and queries into the cleaned,
// whitespace-separated token strings that the vocabulary is built from.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/podtopic/pkg/podtopic/stoplist"
)

// Punctuation is the ASCII punctuation set stripped from every text.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalizer cleans text with a fixed stop term set. It is immutable after
// construction and safe for concurrent use.
type Normalizer struct {
	stops  map[string]struct{}
	terms  []string
	digest string
}

// New creates a normalizer that drops every term in terms.
func New(terms []string) *Normalizer {
	fold := cases.Fold()
	n := &Normalizer{stops: make(map[string]struct{}, len(terms))}
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		n.stops[fold.String(t)] = struct{}{}
	}
	mgr := stoplist.NewManager(terms)
	n.terms = mgr.All()
	n.digest = mgr.Fingerprint()
	return n
}

// FromStoplist creates a normalizer from a stoplist manager.
func FromStoplist(m *stoplist.Manager) *Normalizer {
	return New(m.All())
}

// Normalize cleans text in a fixed order: compatibility forms, digits,
// punctuation, case, stopwords, whitespace. It never fails; text that is
// all noise becomes "".
func (n *Normalizer) Normalize(text string) string {
	// NFKC first: styled letters (𝐀, Ａ) become plain ones and fullwidth
	// digits and punctuation become ASCII before they are stripped.
	clean := norm.NFKC.String(text)

	clean = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		if r < unicode.MaxASCII && strings.ContainsRune(Punctuation, r) {
			return -1
		}
		return r
	}, clean)

	clean = strings.ToLower(clean)
	// uppercase runes that have no lowercase mapping
	clean = strings.Map(func(r rune) rune {
		if unicode.IsUpper(r) {
			return -1
		}
		return r
	}, clean)
	// stripping can strand a combining mark next to its base letter
	clean = norm.NFC.String(clean)

	fold := cases.Fold()
	words := strings.Fields(clean)
	kept := words[:0]
	for _, w := range words {
		if _, stop := n.stops[fold.String(w)]; stop {
			continue
		}
		kept = append(kept, w)
	}
	clean = strings.Join(kept, " ")

	return strings.Join(strings.Fields(clean), " ")
}

// NormalizeAll normalizes each text, preserving order.
func (n *Normalizer) NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = n.Normalize(t)
	}
	return out
}

// Terms returns the sorted stop terms this normalizer drops.
func (n *Normalizer) Terms() []string {
	out := make([]string, len(n.terms))
	copy(out, n.terms)
	return out
}

// Fingerprint identifies the stop term set.
func (n *Normalizer) Fingerprint() string { return n.digest }

// IsStop reports whether token would be dropped.
func (n *Normalizer) IsStop(token string) bool {
	_, ok := n.stops[cases.Fold().String(token)]
	return ok
}

// Tokens splits normalized text on whitespace.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}
