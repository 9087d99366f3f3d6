package pmi

// Counter maintains document frequencies and, for a watched token set,
// document co-occurrence counts.
type Counter struct {
	N   int64               // total number of documents
	Nx  map[string]int64    // document frequency per token
	Nxy map[TokenPair]int64 // documents containing both tokens

	// nil tracks pairs for every token
	watch map[string]struct{}
}

// TokenPair represents an ordered pair of tokens (T1 < T2)
type TokenPair struct {
	T1, T2 string
}

// NewPair returns the canonical pair for a and b.
func NewPair(a, b string) TokenPair {
	if a > b {
		a, b = b, a
	}
	return TokenPair{T1: a, T2: b}
}

// NewCounter creates a counter. Pair counts are kept only for tokens in
// watch; with no watch list every pair is counted.
func NewCounter(watch ...string) *Counter {
	c := &Counter{
		Nx:  make(map[string]int64),
		Nxy: make(map[TokenPair]int64),
	}
	if len(watch) > 0 {
		c.watch = make(map[string]struct{}, len(watch))
		for _, w := range watch {
			c.watch[w] = struct{}{}
		}
	}
	return c
}

// NewDFCounter creates a counter that keeps document frequencies only.
func NewDFCounter() *Counter {
	c := NewCounter()
	c.watch = map[string]struct{}{}
	return c
}

// AddDocument updates counts for one document. Repeated tokens count once.
func (c *Counter) AddDocument(tokens []string) {
	c.N++

	seen := make(map[string]struct{}, len(tokens))
	var tracked []string
	for _, t := range tokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		c.Nx[t]++
		if c.watched(t) {
			tracked = append(tracked, t)
		}
	}

	for i := 0; i < len(tracked); i++ {
		for j := i + 1; j < len(tracked); j++ {
			c.Nxy[NewPair(tracked[i], tracked[j])]++
		}
	}
}

func (c *Counter) watched(t string) bool {
	if c.watch == nil {
		return true
	}
	_, ok := c.watch[t]
	return ok
}

// GetPairCount returns the co-occurrence count for a token pair
func (c *Counter) GetPairCount(t1, t2 string) int64 {
	return c.Nxy[NewPair(t1, t2)]
}

// GetTokenCount returns the document frequency for a token
func (c *Counter) GetTokenCount(t string) int64 {
	return c.Nx[t]
}

// TotalDocs returns the total number of documents processed
func (c *Counter) TotalDocs() int64 {
	return c.N
}

// UniqueTokens returns the number of unique tokens
func (c *Counter) UniqueTokens() int {
	return len(c.Nx)
}

// UniquePairs returns the number of unique token pairs
func (c *Counter) UniquePairs() int {
	return len(c.Nxy)
}

// PairNPMI is the NPMI of a and b under calc.
func (c *Counter) PairNPMI(calc *Calculator, a, b string) float64 {
	return calc.NPMI(c.GetPairCount(a, b), c.Nx[a], c.Nx[b], c.N)
}
