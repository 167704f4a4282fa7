// Package budget extracts budget figures from free-text travel requests.
//
// Extraction is a best-effort pattern match over prose, not a parser: an
// ordered set of patterns is tried and the first match wins. Requests with no
// recognizable budget yield an unconstrained range rather than an error.
package budget

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Range is a user budget expressed as a minimum and maximum dollar amount.
//
// The pair is returned exactly as captured from the text: if the request reads
// "$2000 - $500" the range comes back as (2000, 500). Callers that need an
// ordered pair should use Normalized.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Unconstrained returns the range used when no budget is found in the text:
// zero to positive infinity.
func Unconstrained() Range {
	return Range{Min: 0, Max: math.Inf(1)}
}

// IsUnconstrained reports whether the range places no upper bound on spending.
func (r Range) IsUnconstrained() bool {
	return math.IsInf(r.Max, 1)
}

// Normalized returns the range with Min and Max swapped if they arrived out of
// order. The extractor itself never reorders; see Extract.
func (r Range) Normalized() Range {
	if r.Min > r.Max {
		return Range{Min: r.Max, Max: r.Min}
	}
	return r
}

// String formats the range for logs and status displays.
func (r Range) String() string {
	if r.IsUnconstrained() {
		return fmt.Sprintf("$%.0f - unlimited", r.Min)
	}
	return fmt.Sprintf("$%.0f - $%.0f", r.Min, r.Max)
}

// number matches an integer with optional comma thousands separators.
const number = `(\d+(?:,\d{3})*)`

// separator joins the two figures of a range: hyphen, en dash, or "to".
const separator = `\s*(?:-|–|to)\s*`

// Patterns are tried in order; the first match wins. Range patterns come
// before single-figure patterns so that "Budget: $100 - $2000" is read as a
// range and not as the single figure 100.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)budget[:\s]*\$?` + number + separator + `\$?` + number), // Budget: $100 - $2000
	regexp.MustCompile(`(?i)\$` + number + separator + `\$?` + number),              // $100 - $2000
	regexp.MustCompile(`(?i)` + number + separator + number + `\s*budget`),          // 100 - 2000 budget
	regexp.MustCompile(`(?i)budget[:\s]*\$?` + number),                              // Budget: $1000
	regexp.MustCompile(`(?i)\$` + number),                                           // $1000
}

// dollarAmount matches a dollar figure such as "$1,500" anywhere in a text.
var dollarAmount = regexp.MustCompile(`\$[\d,]+`)

// Extract parses a budget range out of a free-text request.
//
// A two-number match returns the captured figures verbatim, without enforcing
// Min <= Max. A single-number match returns a symmetric 20% tolerance band
// around the figure. If nothing matches, the unconstrained range is returned;
// Extract never fails.
func Extract(text string) Range {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) == 3 && m[2] != "" {
			min, err1 := parseAmount(m[1])
			max, err2 := parseAmount(m[2])
			if err1 != nil || err2 != nil {
				continue
			}
			return Range{Min: min, Max: max}
		}
		v, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		return Range{Min: v * 0.8, Max: v * 1.2}
	}
	return Unconstrained()
}

// ScanAmounts returns every dollar amount found in the text, in order of
// appearance. Tokens that do not parse to a number (a bare "$," for example)
// are skipped.
func ScanAmounts(text string) []float64 {
	var amounts []float64
	for _, tok := range dollarAmount.FindAllString(text, -1) {
		v, err := parseAmount(strings.TrimPrefix(tok, "$"))
		if err != nil {
			continue
		}
		amounts = append(amounts, v)
	}
	return amounts
}

// MaxAmount returns the largest dollar amount found in the text, or zero when
// the text contains none. Used to estimate a plan's total cost from a budget
// analysis narrative: the analysis typically ends with its largest figure
// being the total.
func MaxAmount(text string) float64 {
	var max float64
	for _, v := range ScanAmounts(text) {
		if v > max {
			max = v
		}
	}
	return max
}

func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("budget: empty amount")
	}
	return strconv.ParseFloat(s, 64)
}
