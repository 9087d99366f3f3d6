// Package wordcloud renders the most frequent corpus words as an HTML word
// cloud page.
package wordcloud

import (
	"fmt"
	"io"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/normalize"
)

const (
	DefaultMaxWords      = 50
	DefaultMinWordLength = 2
)

// Word is a token and the number of times it occurs.
type Word struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// Frequencies counts tokens of normalized texts. Words shorter than
// minWordLength runes are skipped. The maxWords most frequent words are
// returned, ties broken by text.
func Frequencies(texts []string, minWordLength, maxWords int) []Word {
	if minWordLength <= 0 {
		minWordLength = DefaultMinWordLength
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	counts := make(map[string]int)
	for _, text := range texts {
		for _, tok := range normalize.Tokens(text) {
			if utf8.RuneCountInString(tok) < minWordLength {
				continue
			}
			counts[tok]++
		}
	}

	words := make([]Word, 0, len(counts))
	for text, n := range counts {
		words = append(words, Word{Text: text, Count: n})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Text < words[j].Text
	})
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return words
}

// Renderer draws words with go-echarts.
type Renderer struct {
	Title  string
	Width  string // CSS size, e.g. "900px"
	Height string
}

// Render writes a self-contained HTML page with one word cloud chart.
func (r Renderer) Render(w io.Writer, words []Word) error {
	if len(words) == 0 {
		return fmt.Errorf("word cloud: no words to draw: %w", internalerr.ErrInvalidInput)
	}

	title := r.Title
	if title == "" {
		title = "Word Cloud"
	}
	width, height := r.Width, r.Height
	if width == "" {
		width = "900px"
	}
	if height == "" {
		height = "600px"
	}

	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
	)

	data := make([]opts.WordCloudData, len(words))
	for i, word := range words {
		data[i] = opts.WordCloudData{Name: word.Text, Value: word.Count}
	}
	wc.AddSeries("words", data)

	return wc.Render(w)
}

// File is a word cloud sink that writes an HTML page to Path.
type File struct {
	Path          string
	MaxWords      int
	MinWordLength int
	Renderer      Renderer
}

// Write renders the corpus to f.Path. The file is only created once there
// is something to draw.
func (f File) Write(texts []string) error {
	minLen := f.MinWordLength
	if minLen <= 0 {
		minLen = DefaultMinWordLength
	}
	words := Frequencies(texts, minLen, f.MaxWords)
	if len(words) == 0 {
		return fmt.Errorf("word cloud: corpus has no words of length >= %d: %w",
			minLen, internalerr.ErrInvalidInput)
	}

	out, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("word cloud: %w", err)
	}
	if err := f.Renderer.Render(out, words); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
