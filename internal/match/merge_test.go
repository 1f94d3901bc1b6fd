package match

import (
	"testing"

	"github.com/propdesk/propdesk/internal/property"
)

func entry(project, area, note, status string) *Entry {
	return &Entry{
		Property: &property.Record{ProjectName: project, Area: area},
		Note:     note,
		Status:   status,
	}
}

func TestMergeTagsSources(t *testing.T) {
	dynamic := []*Entry{
		entry("Sunrise Towers", "Uppal", "", ""),
		entry("Moonrise Heights", "Nagole", "", ""),
	}
	bot := []*Entry{
		entry("Sunrise Towers", "Uppal", "", ""),
		entry("Hilltop Residency", "Kompally", "", ""),
	}

	merged := Merge(dynamic, bot)
	if len(merged) != 3 {
		t.Fatalf("got %d entries, want 3", len(merged))
	}

	bySource := map[string]Source{}
	for _, e := range merged {
		bySource[e.Property.ProjectName] = e.Source
	}

	if bySource["Sunrise Towers"] != SourceBotDynamic {
		t.Errorf("Sunrise Towers source = %q, want %q", bySource["Sunrise Towers"], SourceBotDynamic)
	}
	if bySource["Moonrise Heights"] != SourceDynamic {
		t.Errorf("Moonrise Heights source = %q, want %q", bySource["Moonrise Heights"], SourceDynamic)
	}
	if bySource["Hilltop Residency"] != SourceBot {
		t.Errorf("Hilltop Residency source = %q, want %q", bySource["Hilltop Residency"], SourceBot)
	}
}

func TestMergeKeepsAnnotations(t *testing.T) {
	tests := []struct {
		name                 string
		dynamicNote, botNote string
		wantNote             string
	}{
		{"bot note survives refresh", "", "client liked this one", "client liked this one"},
		{"dynamic note wins over bot", "newer note", "older note", "newer note"},
		{"no notes anywhere", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dynamic := []*Entry{entry("Sunrise Towers", "Uppal", tt.dynamicNote, "")}
			bot := []*Entry{entry("Sunrise Towers", "Uppal", tt.botNote, "shortlisted")}

			merged := Merge(dynamic, bot)
			if len(merged) != 1 {
				t.Fatalf("got %d entries, want 1", len(merged))
			}
			if merged[0].Note != tt.wantNote {
				t.Errorf("note = %q, want %q", merged[0].Note, tt.wantNote)
			}
			if merged[0].Status != "shortlisted" {
				t.Errorf("status = %q, want carried from bot copy", merged[0].Status)
			}
		})
	}
}

func TestMergeRefreshesFieldsFromDynamic(t *testing.T) {
	freshPrice := int64(6500000)
	stalePrice := int64(6000000)

	dynamic := []*Entry{{
		Property: &property.Record{ProjectName: "Sunrise Towers", Area: "Uppal", Price: &freshPrice},
	}}
	bot := []*Entry{{
		Property: &property.Record{ProjectName: "Sunrise Towers", Area: "Uppal", Price: &stalePrice},
		Note:     "keep me",
	}}

	merged := Merge(dynamic, bot)
	if len(merged) != 1 {
		t.Fatalf("got %d entries, want 1", len(merged))
	}
	if merged[0].Property.Price == nil || *merged[0].Property.Price != freshPrice {
		t.Errorf("price = %v, want refreshed %d", merged[0].Property.Price, freshPrice)
	}
	if merged[0].Note != "keep me" {
		t.Errorf("note = %q, want kept from bot copy", merged[0].Note)
	}
}

func TestMergeDeterministicOrder(t *testing.T) {
	dynamic := []*Entry{
		entry("A", "Uppal", "", ""),
		entry("B", "Uppal", "", ""),
	}
	bot := []*Entry{
		entry("C", "Uppal", "", ""),
		entry("D", "Uppal", "", ""),
	}

	merged := Merge(dynamic, bot)
	var order []string
	for _, e := range merged {
		order = append(order, e.Property.ProjectName)
	}

	want := []string{"A", "B", "C", "D"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestMergeSkipsDuplicatesAndNils(t *testing.T) {
	dynamic := []*Entry{
		entry("A", "Uppal", "", ""),
		entry("A", "Uppal", "", ""), // duplicate row, same identity
		{Property: nil},
	}

	merged := Merge(dynamic, nil)
	if len(merged) != 1 {
		t.Errorf("got %d entries, want 1", len(merged))
	}
}
