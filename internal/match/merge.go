package match

import "github.com/propdesk/propdesk/internal/property"

// Source tags where a merged entry came from.
type Source string

const (
	SourceBot        Source = "bot"
	SourceDynamic    Source = "dynamic"
	SourceBotDynamic Source = "bot+dynamic"
)

// Entry pairs a property with its user-entered annotations and origin tag.
type Entry struct {
	Property *property.Record `json:"property"`
	Note     string           `json:"note,omitempty"`
	Status   string           `json:"status,omitempty"`
	Source   Source           `json:"source"`
}

// Merge combines matcher output (dynamic) with bot-suggested entries by
// identity key. For records in both sources, field data refreshes from the
// dynamic copy (it reflects the live inventory) while note and status
// survive from whichever copy carries them; the dynamic copy's annotation
// wins when both do. Entries in one source only are kept as-is.
//
// Order is deterministic: dynamic entries first, then bot-only entries,
// each in input order.
func Merge(dynamic, bot []*Entry) []*Entry {
	botByKey := make(map[string]*Entry, len(bot))
	for _, e := range bot {
		if e.Property == nil {
			continue
		}
		botByKey[e.Property.IdentityKey()] = e
	}

	merged := make([]*Entry, 0, len(dynamic)+len(bot))
	seen := make(map[string]struct{}, len(dynamic))

	for _, d := range dynamic {
		if d.Property == nil {
			continue
		}
		key := d.Property.IdentityKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out := &Entry{
			Property: d.Property,
			Note:     d.Note,
			Status:   d.Status,
			Source:   SourceDynamic,
		}
		if b, ok := botByKey[key]; ok {
			out.Source = SourceBotDynamic
			if out.Note == "" {
				out.Note = b.Note
			}
			if out.Status == "" {
				out.Status = b.Status
			}
		}
		merged = append(merged, out)
	}

	for _, b := range bot {
		if b.Property == nil {
			continue
		}
		key := b.Property.IdentityKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, &Entry{
			Property: b.Property,
			Note:     b.Note,
			Status:   b.Status,
			Source:   SourceBot,
		})
	}

	return merged
}
