package pmi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPMIBasic(t *testing.T) {
	calc := NewCalculator(0)

	// co-occur far more than chance
	pmi := calc.PMI(8, 10, 10, 20)
	assert.Greater(t, pmi, 0.0)
	assert.InDelta(t, math.Log(0.4/(0.5*0.5)), pmi, 1e-9)
}

func TestPMIIndependent(t *testing.T) {
	calc := NewCalculator(0)

	// P(a)=P(b)=0.5, P(a,b)=0.25 is exactly chance
	assert.InDelta(t, 0.0, calc.PMI(25, 50, 50, 100), 1e-9)
}

func TestPMINegative(t *testing.T) {
	calc := NewCalculator(0)
	assert.Less(t, calc.PMI(5, 50, 50, 100), 0.0)
}

func TestPMINeverCooccurIsFinite(t *testing.T) {
	calc := NewCalculator(0)

	pmi := calc.PMI(0, 10, 10, 100)
	assert.False(t, math.IsInf(pmi, 0))
	assert.Less(t, pmi, 0.0)
}

func TestPMIDegenerateCounts(t *testing.T) {
	calc := NewCalculator(0)

	assert.Zero(t, calc.PMI(0, 0, 0, 0))
	assert.Zero(t, calc.PMI(0, 0, 5, 10))
	assert.Zero(t, calc.NPMI(0, 5, 0, 10))
}

func TestNPMIRange(t *testing.T) {
	calc := NewCalculator(0)

	cases := [][4]int64{
		{15, 20, 20, 100},
		{0, 20, 20, 100},
		{1, 1, 1, 100},
		{50, 50, 50, 100},
		{10000, 100000, 100000, 10000000},
	}
	for _, c := range cases {
		v := calc.NPMI(c[0], c[1], c[2], c[3])
		assert.GreaterOrEqual(t, v, -1.0, "%v", c)
		assert.LessOrEqual(t, v, 1.0, "%v", c)
		assert.False(t, math.IsNaN(v))
	}
}

func TestNPMIPerfectAssociation(t *testing.T) {
	calc := NewCalculator(0)

	assert.InDelta(t, 1.0, calc.NPMI(10, 10, 10, 100), 1e-9)
	// pair present in every document
	assert.Equal(t, 1.0, calc.NPMI(100, 100, 100, 100))
}

func TestNPMINeverCooccurNearMinusOne(t *testing.T) {
	calc := NewCalculator(0)
	assert.Less(t, calc.NPMI(0, 10, 10, 100), -0.8)
}
