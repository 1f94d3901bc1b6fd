package property

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// importColumns is the expected CSV header, in any order.
// Only project_name and area are required per row.
var importColumns = []string{
	"project_name", "area", "price", "bhk", "size_min", "size_max",
	"property_type", "possession", "builder", "rera_number",
}

// ImportCSV reads inventory rows from r and upserts them.
// Malformed rows are logged and skipped; the returned count is rows stored.
func (repo *Repository) ImportCSV(r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("reading header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"project_name", "area"} {
		if _, ok := col[required]; !ok {
			return 0, fmt.Errorf("missing required column %q", required)
		}
	}

	imported := 0
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("skipping unreadable row", "line", line, "error", err)
			continue
		}

		rec, err := recordFromRow(col, row)
		if err != nil {
			slog.Warn("skipping invalid row", "line", line, "error", err)
			continue
		}

		if _, err := repo.Upsert(rec); err != nil {
			return imported, fmt.Errorf("storing row %d: %w", line, err)
		}
		imported++
	}

	return imported, nil
}

// recordFromRow builds a Record from one CSV row using the header map.
func recordFromRow(col map[string]int, row []string) (*Record, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := &Record{
		ProjectName:  field("project_name"),
		Area:         field("area"),
		BHK:          field("bhk"),
		PropertyType: field("property_type"),
		Possession:   field("possession"),
		Builder:      field("builder"),
		ReraNumber:   field("rera_number"),
	}

	if rec.ProjectName == "" || rec.Area == "" {
		return nil, fmt.Errorf("project_name and area are required")
	}

	if s := field("price"); s != "" {
		price, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q: %w", s, err)
		}
		if price <= 0 {
			return nil, fmt.Errorf("price must be positive, got %d", price)
		}
		rec.Price = &price
	}

	for name, dst := range map[string]**float64{
		"size_min": &rec.SizeMin,
		"size_max": &rec.SizeMax,
	} {
		if s := field(name); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q: %w", name, s, err)
			}
			*dst = &v
		}
	}

	return rec, nil
}
