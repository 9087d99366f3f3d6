package pmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterBasic(t *testing.T) {
	counter := NewCounter()
	counter.AddDocument([]string{"fitness", "health", "diet"})

	assert.Equal(t, int64(1), counter.TotalDocs())
	assert.Equal(t, int64(1), counter.GetTokenCount("health"))
	assert.Equal(t, 3, counter.UniqueTokens())
	assert.Equal(t, 3, counter.UniquePairs())
}

func TestCounterRepeatedTokensCountOnce(t *testing.T) {
	counter := NewCounter()
	counter.AddDocument([]string{"health", "health", "diet"})

	assert.Equal(t, int64(1), counter.GetTokenCount("health"))
	assert.Equal(t, int64(1), counter.GetPairCount("health", "diet"))
	assert.Equal(t, int64(0), counter.GetPairCount("health", "health"))
}

func TestCounterCooccurrence(t *testing.T) {
	counter := NewCounter()
	counter.AddDocument([]string{"stocks", "money"})
	counter.AddDocument([]string{"money", "stocks"})
	counter.AddDocument([]string{"money"})

	assert.Equal(t, int64(3), counter.GetTokenCount("money"))
	assert.Equal(t, int64(2), counter.GetPairCount("stocks", "money"))
	assert.Equal(t, counter.GetPairCount("money", "stocks"), counter.GetPairCount("stocks", "money"))
}

func TestCounterWatchListLimitsPairs(t *testing.T) {
	counter := NewCounter("a", "b")
	counter.AddDocument([]string{"a", "b", "c", "d"})

	assert.Equal(t, 1, counter.UniquePairs())
	assert.Equal(t, int64(1), counter.GetPairCount("a", "b"))
	assert.Equal(t, int64(0), counter.GetPairCount("c", "d"))
	// document frequency is still tracked for everything
	assert.Equal(t, int64(1), counter.GetTokenCount("d"))
}

func TestNewPairCanonical(t *testing.T) {
	assert.Equal(t, TokenPair{T1: "apple", T2: "zebra"}, NewPair("zebra", "apple"))
	assert.Equal(t, NewPair("x", "y"), NewPair("y", "x"))
}

func TestPairNPMI(t *testing.T) {
	counter := NewCounter()
	counter.AddDocument([]string{"a", "b"})
	counter.AddDocument([]string{"c"})

	calc := NewCalculator(0)
	assert.InDelta(t, 1.0, counter.PairNPMI(calc, "a", "b"), 1e-9)
	assert.Less(t, counter.PairNPMI(calc, "a", "c"), 0.0)
}

func TestDFCounterSkipsPairs(t *testing.T) {
	counter := NewDFCounter()
	counter.AddDocument([]string{"a", "b", "a"})
	counter.AddDocument([]string{"b"})

	assert.Equal(t, 0, counter.UniquePairs())
	assert.Equal(t, int64(1), counter.GetTokenCount("a"))
	assert.Equal(t, int64(2), counter.GetTokenCount("b"))
}
