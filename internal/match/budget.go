// Package match implements deterministic property matching: budget and
// possession normalization, the filter pipeline, deduplication, and merging
// with externally suggested properties.
package match

import (
	"regexp"
	"strconv"
	"strings"
)

// Multipliers for Indian budget units, in rupees.
const (
	Lakh  = 100_000
	Crore = 10_000_000
)

// Range is an inclusive budget window in rupees.
type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// dashVariants maps unicode dash characters to an ASCII hyphen so range
// detection only has to look for one separator.
var dashVariants = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"−", "-", // minus sign
)

// sideRe matches one side of a budget expression: a number followed by an
// optional unit word. Currency symbols and commas are stripped beforehand.
var sideRe = regexp.MustCompile(`(?i)^([0-9]*\.?[0-9]+)\s*(crores?|cr|lakhs?|lacs?|l)?$`)

// ParseBudget parses a free-form budget string into a rupee window.
//
// Ranges ("50L-75L", "1 - 2 Cr", "50 to 75 Lakhs") resolve each side's unit
// independently. A single figure is treated as the known maximum and the
// window becomes [0.5*max, max] to surface slightly-below-budget inventory.
// Returns ok=false when nothing parses; it never returns a zero-width
// sentinel window.
func ParseBudget(s string) (Range, bool) {
	s = cleanBudget(s)
	if s == "" {
		return Range{}, false
	}

	if sides, isRange := splitRange(s); isRange {
		min, okMin := parseSide(sides[0])
		max, okMax := parseSide(sides[1])
		if !okMin || !okMax || min <= 0 || max <= 0 || min > max {
			return Range{}, false
		}
		return Range{Min: min, Max: max}, true
	}

	max, ok := parseSide(s)
	if !ok || max <= 0 {
		return Range{}, false
	}
	return Range{Min: max / 2, Max: max}, true
}

// ParseBudgetParts resolves a separate amount + unit pair, as submitted by
// the requirement form, into the same half-floor window as ParseBudget.
func ParseBudgetParts(amount, unit string) (Range, bool) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return Range{}, false
	}
	return ParseBudget(amount + " " + unit)
}

// ParseAmount parses a single money expression ("95 Lakhs", "1.2 Cr",
// "₹65,00,000") into rupees, without any window construction.
func ParseAmount(s string) (int64, bool) {
	v, ok := parseSide(cleanBudget(s))
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// Resolve determines the effective budget window for a requirement: the
// free-form text wins when it parses, explicit positive bounds are the
// fallback, and nil means no budget constraint at all.
func Resolve(text string, minBudget, maxBudget *int64) *Range {
	if r, ok := ParseBudget(text); ok {
		return &r
	}
	if minBudget != nil && maxBudget != nil && *minBudget > 0 && *maxBudget > 0 && *minBudget <= *maxBudget {
		return &Range{Min: *minBudget, Max: *maxBudget}
	}
	return nil
}

// cleanBudget strips currency symbols and commas and normalizes dashes.
func cleanBudget(s string) string {
	s = dashVariants.Replace(s)
	s = strings.NewReplacer("₹", "", ",", "").Replace(s)
	lower := strings.ToLower(s)
	for _, prefix := range []string{"rs.", "rs ", "inr "} {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	return strings.TrimSpace(s)
}

// splitRange splits s on a hyphen or the literal " to ". The second return
// reports whether s was a two-sided range.
func splitRange(s string) ([2]string, bool) {
	var left, right string
	switch {
	case strings.Contains(s, "-"):
		parts := strings.SplitN(s, "-", 2)
		left, right = parts[0], parts[1]
	case strings.Contains(strings.ToLower(s), " to "):
		idx := strings.Index(strings.ToLower(s), " to ")
		left, right = s[:idx], s[idx+4:]
	default:
		return [2]string{}, false
	}
	return [2]string{strings.TrimSpace(left), strings.TrimSpace(right)}, true
}

// parseSide parses one number-plus-optional-unit expression into rupees.
// A side without a unit is taken as already being in rupees.
func parseSide(s string) (int64, bool) {
	m := sideRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	mult := int64(1)
	switch unit := strings.ToLower(m[2]); {
	case unit == "":
		// rupees as-is
	case strings.HasPrefix(unit, "cr"):
		mult = Crore
	default: // lakh, lakhs, lac, lacs, l
		mult = Lakh
	}

	return int64(value * float64(mult)), true
}
