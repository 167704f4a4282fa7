package budget

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		min  float64
		max  float64
	}{
		{
			name: "explicit budget range with dollar signs",
			text: "Budget: $1,500 - $2,000",
			min:  1500,
			max:  2000,
		},
		{
			name: "bare dollar range",
			text: "We can spend $800 - $1,200 on this trip",
			min:  800,
			max:  1200,
		},
		{
			name: "range before the word budget",
			text: "around a 100 - 2000 budget",
			min:  100,
			max:  2000,
		},
		{
			name: "en dash separator",
			text: "Budget: $500 – $900",
			min:  500,
			max:  900,
		},
		{
			name: "to separator",
			text: "$3,000 to $5,000",
			min:  3000,
			max:  5000,
		},
		{
			name: "single budget figure gets 20% band",
			text: "Budget: $1000",
			min:  800,
			max:  1200,
		},
		{
			name: "bare single dollar figure",
			text: "$3000",
			min:  2400,
			max:  3600,
		},
		{
			name: "case insensitive",
			text: "BUDGET: $2,500",
			min:  2000,
			max:  3000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Extract(tt.text)
			assert.InDelta(t, tt.min, r.Min, 0.001)
			assert.InDelta(t, tt.max, r.Max, 0.001)
		})
	}
}

func TestExtractNoMatch(t *testing.T) {
	r := Extract("no numbers here")
	assert.Equal(t, 0.0, r.Min)
	assert.True(t, math.IsInf(r.Max, 1))
	assert.True(t, r.IsUnconstrained())
}

func TestExtractDeterministic(t *testing.T) {
	text := "Plan a trip. Budget: $800 - $1200."
	first := Extract(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Extract(text))
	}
}

// First matching pattern wins: the "budget: $X" single-figure pattern must
// take the 500, not the later bare "$9999".
func TestExtractPatternPriority(t *testing.T) {
	r := Extract("Budget: $500 and also mentions $9999 separately")
	assert.InDelta(t, 400.0, r.Min, 0.001)
	assert.InDelta(t, 600.0, r.Max, 0.001)
}

// An inverted pair is returned exactly as written; ordering is the caller's
// decision via Normalized.
func TestExtractUnorderedPair(t *testing.T) {
	r := Extract("Budget: $2000 - $500")
	assert.Equal(t, Range{Min: 2000, Max: 500}, r)

	n := r.Normalized()
	assert.Equal(t, Range{Min: 500, Max: 2000}, n)
}

func TestNormalizedAlreadyOrdered(t *testing.T) {
	r := Range{Min: 100, Max: 200}
	assert.Equal(t, r, r.Normalized())
}

func TestScanAmounts(t *testing.T) {
	text := "Accommodation: $800-1,000 total, food $300, activities $1,450"
	got := ScanAmounts(text)
	assert.Equal(t, []float64{800, 300, 1450}, got)
}

func TestScanAmountsEmpty(t *testing.T) {
	assert.Nil(t, ScanAmounts("no currency figures at all"))
}

func TestMaxAmount(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"Total: $1,400 - $2,100 within your $2,500 budget", 2500},
		{"$1000", 1000},
		{"", 0},
		{"nothing", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaxAmount(tt.text))
	}
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, "$800 - $1200", Range{Min: 800, Max: 1200}.String())
	assert.Equal(t, "$0 - unlimited", Unconstrained().String())
}
