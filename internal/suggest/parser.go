// Package suggest reconstructs structured property records from the
// loosely-formatted text blocks produced by the chat agent.
//
// The input has no formal contract; the variants handled here are the ones
// exercised in parser_test.go. Anything else is logged and skipped — a bad
// block must never take down a match run.
package suggest

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/propdesk/propdesk/internal/match"
	"github.com/propdesk/propdesk/internal/property"
)

// labelAliases maps the field labels seen in bot output to record fields.
var labelAliases = map[string]string{
	"project":       "project",
	"project name":  "project",
	"name":          "project",
	"location":      "area",
	"area":          "area",
	"price":         "price",
	"budget":        "price",
	"configuration": "bhk",
	"config":        "bhk",
	"bhk":           "bhk",
	"possession":    "possession",
	"builder":       "builder",
	"rera":          "rera",
	"rera no":       "rera",
	"rera number":   "rera",
	"type":          "type",
	"property type": "type",
}

var (
	numberedPrefixRe = regexp.MustCompile(`^\s*\d+[.)]\s*`)
	bhkRe            = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*BHK\b`)
)

// ParseSuggestedProperties extracts property records from a free-text blob.
// Blocks separated by blank lines are tried as labelled key/value blocks
// first, then as inline "project - location - price - config" rows (one per
// line, commas also accepted). Unparsed blocks are skipped, never fatal.
func ParseSuggestedProperties(text string) []*property.Record {
	var records []*property.Record

	for _, block := range splitBlocks(text) {
		if rec := parseLabelledBlock(block); rec != nil {
			records = append(records, rec)
			continue
		}

		parsed := false
		for _, line := range strings.Split(block, "\n") {
			if rec := parseInlineRow(line); rec != nil {
				records = append(records, rec)
				parsed = true
			}
		}
		if !parsed {
			slog.Warn("skipping unparseable suggestion block", "block", truncate(block, 120))
		}
	}

	return records
}

// splitBlocks splits the text on blank lines.
func splitBlocks(text string) []string {
	var blocks []string
	for _, raw := range regexp.MustCompile(`\n\s*\n`).Split(text, -1) {
		if b := strings.TrimSpace(raw); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// parseLabelledBlock handles "Label: value" blocks. A block qualifies when
// at least two lines carry known labels and a project name is among them.
func parseLabelledBlock(block string) *property.Record {
	rec := &property.Record{}
	labelled := 0

	for _, line := range strings.Split(block, "\n") {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		field, known := labelAliases[label]
		if !known || value == "" {
			continue
		}
		labelled++

		switch field {
		case "project":
			rec.ProjectName = value
		case "area":
			rec.Area = value
		case "price":
			if amount, ok := match.ParseAmount(value); ok {
				rec.Price = &amount
			}
		case "bhk":
			rec.BHK = match.NormalizeConfig(value)
		case "possession":
			rec.Possession = value
		case "builder":
			rec.Builder = value
		case "rera":
			rec.ReraNumber = value
		case "type":
			rec.PropertyType = value
		}
	}

	if labelled < 2 || rec.ProjectName == "" {
		return nil
	}
	return rec
}

// parseInlineRow handles one-line rows such as
//
//	1. Sunrise Towers - Uppal - 95 Lakhs - 2 BHK
//	Sunrise Towers, Uppal, 2 BHK, 95L
//
// The first segment is the project, the second the location; remaining
// segments are sniffed for a price and a configuration.
func parseInlineRow(line string) *property.Record {
	line = numberedPrefixRe.ReplaceAllString(strings.TrimSpace(line), "")
	if line == "" {
		return nil
	}

	sep := " - "
	if !strings.Contains(line, sep) {
		sep = ","
	}
	parts := strings.Split(line, sep)
	if len(parts) < 2 {
		return nil
	}

	rec := &property.Record{
		ProjectName: strings.TrimSpace(parts[0]),
		Area:        strings.TrimSpace(parts[1]),
	}
	if rec.ProjectName == "" || rec.Area == "" {
		return nil
	}

	for _, part := range parts[2:] {
		part = strings.TrimSpace(part)
		if m := bhkRe.FindStringSubmatch(part); m != nil {
			rec.BHK = m[1]
			continue
		}
		if rec.Price == nil {
			if amount, ok := match.ParseAmount(part); ok {
				rec.Price = &amount
			}
		}
	}

	return rec
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
