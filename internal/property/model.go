// Package property provides the property inventory model and data access.
package property

import (
	"database/sql"
	"strings"
	"time"
)

// PropertyType values seen in the inventory. Matching treats the type as a
// case-insensitive substring, so these are labels rather than a closed enum.
const (
	TypeApartment      = "Apartment"
	TypeVilla          = "Villa"
	TypeVillaApartment = "Villa-Apartment"
)

// Record represents one unit of real-estate inventory.
// Price is stored in rupees (base currency unit), never a display string.
type Record struct {
	ID           int64    `json:"id"`
	ProjectName  string   `json:"project_name"`
	Area         string   `json:"area"`
	Price        *int64   `json:"price,omitempty"`
	BHK          string   `json:"bhk"`
	SizeMin      *float64 `json:"size_min,omitempty"`
	SizeMax      *float64 `json:"size_max,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	Possession   string   `json:"possession,omitempty"`
	Builder      string   `json:"builder,omitempty"`
	ReraNumber   string   `json:"rera_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IdentityKey returns the stable identity used for deduplication and
// shortlist annotations. RERA registration wins when present; otherwise the
// key is the case-folded, whitespace-collapsed (project, area) pair.
func (r *Record) IdentityKey() string {
	if rera := strings.TrimSpace(r.ReraNumber); rera != "" {
		return "rera:" + strings.ToUpper(rera)
	}
	return "proj:" + foldKey(r.ProjectName) + "|" + foldKey(r.Area)
}

// foldKey lowercases s and collapses whitespace runs to single spaces.
func foldKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// scanRecord scans a property record from a database row.
func scanRecord(row interface{ Scan(...interface{}) error }) (*Record, error) {
	var r Record
	var price sql.NullInt64
	var sizeMin, sizeMax sql.NullFloat64

	err := row.Scan(
		&r.ID, &r.ProjectName, &r.Area, &price, &r.BHK,
		&sizeMin, &sizeMax, &r.PropertyType, &r.Possession,
		&r.Builder, &r.ReraNumber, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if price.Valid {
		r.Price = &price.Int64
	}
	if sizeMin.Valid {
		r.SizeMin = &sizeMin.Float64
	}
	if sizeMax.Valid {
		r.SizeMax = &sizeMax.Float64
	}

	return &r, nil
}
