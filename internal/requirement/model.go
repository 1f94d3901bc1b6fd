// Package requirement provides buyer requirement storage per client.
package requirement

import (
	"time"

	"github.com/propdesk/propdesk/internal/match"
)

// Financing options a buyer can state.
type Financing string

const (
	FinancingOTP  Financing = "OTP"
	FinancingLoan Financing = "Loan option"
)

// ValidFinancing returns true if f is empty or a known option.
func ValidFinancing(f string) bool {
	switch Financing(f) {
	case "", FinancingOTP, FinancingLoan:
		return true
	}
	return false
}

// SentinelName is the display name of the default requirement every client
// carries at seq 1. It represents "no explicit requirement yet".
const SentinelName = "Not specified"

// Requirement is one stated preference set for a client. Seq is sequential
// per client; seq 1 is the non-deletable sentinel.
type Requirement struct {
	ID       int64  `json:"id"`
	ClientID string `json:"client_id"`
	Seq      int    `json:"seq"`
	Name     string `json:"name"`

	Budget    string `json:"budget,omitempty"`
	BudgetMin *int64 `json:"budget_min,omitempty"`
	BudgetMax *int64 `json:"budget_max,omitempty"`

	Configurations []string `json:"configurations,omitempty"`
	Locations      []string `json:"locations,omitempty"`
	Possessions    []string `json:"possessions,omitempty"`
	PropertyType   string   `json:"property_type,omitempty"`

	SizeMin *float64 `json:"size_min,omitempty"`
	SizeMax *float64 `json:"size_max,omitempty"`

	Financing  Financing `json:"financing,omitempty"`
	IncludeGST bool      `json:"include_gst"`

	MatchedCount       int `json:"matched_count"`
	UniqueMatchedCount int `json:"unique_matched_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsSentinel reports whether this is the default "no requirement yet" row.
func (r *Requirement) IsSentinel() bool {
	return r.Seq == 1
}

// Criteria translates the requirement into matcher inputs.
func (r *Requirement) Criteria() match.Criteria {
	return match.Criteria{
		Budget:         r.Budget,
		BudgetMin:      r.BudgetMin,
		BudgetMax:      r.BudgetMax,
		Configurations: r.Configurations,
		Locations:      r.Locations,
		Possessions:    r.Possessions,
		PropertyType:   r.PropertyType,
		SizeMin:        r.SizeMin,
		SizeMax:        r.SizeMax,
	}
}

// HasPreferences reports whether any buyer-stated preference is present.
// The sentinel requirement always reports false.
func (r *Requirement) HasPreferences() bool {
	return r.Budget != "" || r.BudgetMin != nil || r.BudgetMax != nil ||
		len(r.Configurations) > 0 || len(r.Locations) > 0 ||
		len(r.Possessions) > 0 || r.PropertyType != "" ||
		r.SizeMin != nil || r.SizeMax != nil
}
