package pmi

import "math"

// DefaultEpsilon keeps log(0) out of PMI for pairs that never co-occur.
const DefaultEpsilon = 1e-12

// Calculator handles PMI (Pointwise Mutual Information) calculations over
// document co-occurrence probabilities.
type Calculator struct {
	epsilon float64 // smoothing added to the joint probability
}

// NewCalculator creates a new PMI calculator with the given epsilon
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Calculator{epsilon: epsilon}
}

// PMI calculates the pointwise mutual information between two tokens
//
//	PMI(a,b) = log((P(a,b) + ε) / (P(a) P(b)))
//
// with P(x) = N_x / N estimated from document counts. Tokens that never
// occur score 0.
func (c *Calculator) PMI(nAB, nA, nB, N int64) float64 {
	if N <= 0 || nA <= 0 || nB <= 0 {
		return 0
	}
	n := float64(N)
	pAB := float64(nAB) / n
	pA := float64(nA) / n
	pB := float64(nB) / n
	return math.Log((pAB + c.epsilon) / (pA * pB))
}

// NPMI calculates normalized PMI, PMI / -log(P(a,b) + ε), in [-1, 1].
func (c *Calculator) NPMI(nAB, nA, nB, N int64) float64 {
	if N <= 0 || nA <= 0 || nB <= 0 {
		return 0
	}
	denom := -math.Log(float64(nAB)/float64(N) + c.epsilon)
	if denom <= 0 {
		// the pair occurs in every document
		return 1
	}
	v := c.PMI(nAB, nA, nB, N) / denom
	return math.Max(-1, math.Min(1, v))
}
