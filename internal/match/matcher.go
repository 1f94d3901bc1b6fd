package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/propdesk/propdesk/internal/property"
)

// DefaultPageSize caps returned properties when the caller does not ask
// for everything.
const DefaultPageSize = 20

// Criteria is a buyer requirement translated into filter inputs.
// Empty or nil fields mean "no filter", never "match nothing".
type Criteria struct {
	// Budget is the free-form budget string ("1.5 Crores", "50L-75L").
	// It wins over BudgetMin/BudgetMax when it parses.
	Budget    string `json:"budget,omitempty"`
	BudgetMin *int64 `json:"budget_min,omitempty"`
	BudgetMax *int64 `json:"budget_max,omitempty"`

	Configurations []string `json:"configurations,omitempty"`
	Locations      []string `json:"locations,omitempty"`
	Possessions    []string `json:"possessions,omitempty"`
	PropertyType   string   `json:"property_type,omitempty"`

	SizeMin *float64 `json:"size_min,omitempty"`
	SizeMax *float64 `json:"size_max,omitempty"`

	IncludeProperties bool `json:"include_properties"`
	ReturnAll         bool `json:"return_all,omitempty"`
	Limit             int  `json:"limit,omitempty"`
}

// Result is the outcome of a match run. TotalMatches counts raw rows,
// MatchedCount counts distinct identity keys among them.
type Result struct {
	TotalMatches int                `json:"totalMatches"`
	MatchedCount int                `json:"matchedCount"`
	Properties   []*property.Record `json:"properties"`
}

// Inventory supplies a fresh-enough snapshot of the property table per call.
type Inventory interface {
	Snapshot() ([]*property.Record, error)
}

// Matcher filters an inventory snapshot against buyer criteria.
// It never mutates inventory data and holds no state across calls.
type Matcher struct {
	inv Inventory
	now func() time.Time
}

// New creates a matcher over the given inventory.
func New(inv Inventory) *Matcher {
	return &Matcher{inv: inv, now: time.Now}
}

// NewAt creates a matcher with a fixed clock, for tests and replays.
func NewAt(inv Inventory, now func() time.Time) *Matcher {
	return &Matcher{inv: inv, now: now}
}

// Match applies every active filter as a logical AND across the inventory.
func (m *Matcher) Match(c Criteria) (*Result, error) {
	records, err := m.inv.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("reading inventory: %w", err)
	}

	budget := Resolve(c.Budget, c.BudgetMin, c.BudgetMax)
	configs := normalizeConfigs(c.Configurations)
	now := m.now()

	var matched []*property.Record
	for _, rec := range records {
		if !matchesBudget(rec, budget) {
			continue
		}
		if !matchesConfig(rec, configs) {
			continue
		}
		if !matchesLocation(rec, c.Locations) {
			continue
		}
		if !matchesType(rec, c.PropertyType) {
			continue
		}
		if !matchesSize(rec, c.SizeMin, c.SizeMax) {
			continue
		}
		if !matchesPossession(rec, c.Possessions, now) {
			continue
		}
		matched = append(matched, rec)
	}

	result := &Result{
		TotalMatches: len(matched),
		MatchedCount: uniqueCount(matched),
	}

	if c.IncludeProperties {
		result.Properties = matched
		if !c.ReturnAll {
			limit := c.Limit
			if limit <= 0 {
				limit = DefaultPageSize
			}
			if len(result.Properties) > limit {
				result.Properties = result.Properties[:limit]
			}
		}
	}

	return result, nil
}

// NormalizeConfig reduces a configuration string to its comparable numeric
// form: "2 BHK" -> "2", "3.5bhk" -> "3.5".
func NormalizeConfig(s string) string {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimSuffix(strings.ToUpper(s), "BHK")
	return strings.TrimSpace(s)
}

func normalizeConfigs(configs []string) []string {
	var out []string
	for _, c := range configs {
		if n := NormalizeConfig(c); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// matchesBudget checks the price against the resolved window.
// An active budget filter rejects records without a price.
func matchesBudget(rec *property.Record, budget *Range) bool {
	if budget == nil {
		return true
	}
	if rec.Price == nil {
		return false
	}
	return *rec.Price >= budget.Min && *rec.Price <= budget.Max
}

// matchesConfig requires exact equality on the normalized BHK value.
func matchesConfig(rec *property.Record, configs []string) bool {
	if len(configs) == 0 {
		return true
	}
	have := NormalizeConfig(rec.BHK)
	for _, want := range configs {
		if have == want {
			return true
		}
	}
	return false
}

// matchesLocation passes when any requested area is a case-insensitive
// substring of the record's area.
func matchesLocation(rec *property.Record, locations []string) bool {
	if len(locations) == 0 {
		return true
	}
	area := strings.ToLower(rec.Area)
	for _, loc := range locations {
		loc = strings.ToLower(strings.TrimSpace(loc))
		if loc != "" && strings.Contains(area, loc) {
			return true
		}
	}
	return false
}

func matchesType(rec *property.Record, propertyType string) bool {
	propertyType = strings.TrimSpace(propertyType)
	if propertyType == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.PropertyType), strings.ToLower(propertyType))
}

// matchesSize tests range overlap between the record's size span and the
// requested bounds. An active size filter rejects records with no size data.
func matchesSize(rec *property.Record, sizeMin, sizeMax *float64) bool {
	if sizeMin == nil && sizeMax == nil {
		return true
	}

	recMin, recMax, ok := recordSizeSpan(rec)
	if !ok {
		return false
	}

	if sizeMin != nil && recMax < *sizeMin {
		return false
	}
	if sizeMax != nil && recMin > *sizeMax {
		return false
	}
	return true
}

// recordSizeSpan returns the record's size as a [min, max] span, treating a
// single bound as a point value.
func recordSizeSpan(rec *property.Record) (float64, float64, bool) {
	switch {
	case rec.SizeMin != nil && rec.SizeMax != nil:
		return *rec.SizeMin, *rec.SizeMax, true
	case rec.SizeMin != nil:
		return *rec.SizeMin, *rec.SizeMin, true
	case rec.SizeMax != nil:
		return *rec.SizeMax, *rec.SizeMax, true
	default:
		return 0, 0, false
	}
}

// matchesPossession buckets the record's raw possession value and tests
// membership in the requested buckets.
func matchesPossession(rec *property.Record, possessions []string, now time.Time) bool {
	if len(possessions) == 0 {
		return true
	}
	bucket := PossessionBucket(rec.Possession, now)
	for _, want := range possessions {
		if strings.EqualFold(strings.TrimSpace(want), bucket) {
			return true
		}
	}
	return false
}

// uniqueCount counts distinct identity keys among the matched rows.
func uniqueCount(records []*property.Record) int {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		seen[rec.IdentityKey()] = struct{}{}
	}
	return len(seen)
}
