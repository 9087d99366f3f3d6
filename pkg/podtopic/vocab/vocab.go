// Package vocab maps normalized tokens to dense integer ids and turns
// normalized text into bag-of-words vectors over those ids.
package vocab

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/normalize"
)

// FormatVersion is the persisted index layout version.
const FormatVersion = 1

// Index is a stable token<->id mapping. Ids are assigned once, in first-seen
// order, and never renumbered. An Index is read-only after Build and safe to
// share between goroutines.
type Index struct {
	tokens []string
	ids    map[string]int
	digest string
}

// Build assigns ids to every distinct token of texts in first-seen order
// across the flattened token stream. Training order therefore fixes the ids.
func Build(texts []string) *Index {
	idx := &Index{ids: make(map[string]int)}
	for _, text := range texts {
		for _, tok := range normalize.Tokens(text) {
			if _, ok := idx.ids[tok]; ok {
				continue
			}
			idx.ids[tok] = len(idx.tokens)
			idx.tokens = append(idx.tokens, tok)
		}
	}
	idx.digest = fingerprint(idx.tokens)
	return idx
}

// FromTokens rebuilds an index whose id i is tokens[i].
func FromTokens(tokens []string) (*Index, error) {
	idx := &Index{
		tokens: make([]string, len(tokens)),
		ids:    make(map[string]int, len(tokens)),
	}
	for i, tok := range tokens {
		if tok == "" {
			return nil, fmt.Errorf("%w: empty token at id %d", internalerr.ErrInvalidInput, i)
		}
		if prev, dup := idx.ids[tok]; dup {
			return nil, fmt.Errorf("%w: token %q at ids %d and %d", internalerr.ErrDuplicate, tok, prev, i)
		}
		idx.ids[tok] = i
		idx.tokens[i] = tok
	}
	idx.digest = fingerprint(idx.tokens)
	return idx, nil
}

// Len returns the number of tokens.
func (x *Index) Len() int { return len(x.tokens) }

// ID returns the id of token; ok is false for unseen tokens.
func (x *Index) ID(token string) (id int, ok bool) {
	id, ok = x.ids[token]
	return id, ok
}

// Token returns the token for id.
func (x *Index) Token(id int) (string, bool) {
	if id < 0 || id >= len(x.tokens) {
		return "", false
	}
	return x.tokens[id], true
}

// Tokens returns all tokens in id order.
func (x *Index) Tokens() []string {
	out := make([]string, len(x.tokens))
	copy(out, x.tokens)
	return out
}

// Fingerprint hashes the id-ordered token list. Two indexes with the same
// fingerprint produce identical vectors.
func (x *Index) Fingerprint() string { return x.digest }

// Equal reports whether both indexes map every token to the same id.
func (x *Index) Equal(o *Index) bool {
	if x == nil || o == nil {
		return x == o
	}
	if len(x.tokens) != len(o.tokens) {
		return false
	}
	for i := range x.tokens {
		if x.tokens[i] != o.tokens[i] {
			return false
		}
	}
	return true
}

func fingerprint(tokens []string) string {
	h := sha256.New()
	for _, t := range tokens {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type indexJSON struct {
	Format      int      `json:"format"`
	Fingerprint string   `json:"fingerprint"`
	Tokens      []string `json:"tokens"`
}

// MarshalJSON encodes the index with its format version and fingerprint.
func (x *Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(indexJSON{
		Format:      FormatVersion,
		Fingerprint: x.digest,
		Tokens:      x.tokens,
	})
}

// UnmarshalJSON decodes an index, rejecting unknown versions and
// fingerprints that do not match the token list. x is untouched on error.
func (x *Index) UnmarshalJSON(data []byte) error {
	var raw indexJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Format != FormatVersion {
		return fmt.Errorf("unsupported vocabulary format %d (want %d)", raw.Format, FormatVersion)
	}
	idx, err := FromTokens(raw.Tokens)
	if err != nil {
		return err
	}
	if raw.Fingerprint != "" && raw.Fingerprint != idx.digest {
		return errors.New("vocabulary fingerprint does not match tokens")
	}
	*x = *idx
	return nil
}

// Write encodes the index to w.
func (x *Index) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(x)
}

// Read decodes an index from r. Failures are *internalerr.LoadError.
func Read(r io.Reader, source string) (*Index, error) {
	var idx Index
	if err := json.NewDecoder(r).Decode(&idx); err != nil {
		return nil, &internalerr.LoadError{Artifact: "vocabulary", Source: source, Err: err}
	}
	return &idx, nil
}

// Save writes the index to path.
func (x *Index) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	if err := x.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("save vocabulary: %w", err)
	}
	return f.Close()
}

// Load reads an index saved with Save.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &internalerr.LoadError{Artifact: "vocabulary", Source: path, Err: err}
	}
	defer f.Close()
	return Read(f, path)
}
