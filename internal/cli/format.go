package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/propdesk/propdesk/internal/match"
	"github.com/propdesk/propdesk/internal/property"
	"github.com/propdesk/propdesk/internal/schedule"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatPrice renders rupees in lakh/crore display form.
func formatPrice(p *int64) string {
	if p == nil {
		return "-"
	}
	if *p >= match.Crore {
		return fmt.Sprintf("₹%.2f Cr", float64(*p)/match.Crore)
	}
	return fmt.Sprintf("₹%.2f L", float64(*p)/match.Lakh)
}

// printPropertyTable prints properties in tabular text format.
func printPropertyTable(records []*property.Record) error {
	if len(records) == 0 {
		fmt.Println("No properties found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROJECT\tAREA\tPRICE\tBHK\tPOSSESSION")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.ProjectName, r.Area, formatPrice(r.Price), r.BHK, r.Possession)
	}
	return w.Flush()
}

// printMatchResult prints a match outcome with its counts.
func printMatchResult(result *match.Result) error {
	fmt.Printf("%d matches (%d unique projects)\n", result.TotalMatches, result.MatchedCount)
	if len(result.Properties) == 0 {
		return nil
	}
	fmt.Println()
	return printPropertyTable(result.Properties)
}

// printMeeting prints a booked meeting confirmation.
func printMeeting(m *schedule.Meeting) {
	fmt.Printf("Meeting %s booked\n", m.ID)
	fmt.Printf("  Client:  %s\n", m.ClientName)
	expert := m.ExpertEmail
	if m.ExpertName != "" {
		expert = fmt.Sprintf("%s (%s)", m.ExpertName, m.ExpertEmail)
	}
	fmt.Printf("  Expert:  %s\n", expert)
	fmt.Printf("  When:    %s - %s\n",
		m.StartTime.Format("Mon, 2 Jan 2006 3:04 PM"),
		m.EndTime.Format("3:04 PM"))
}

// printSlots prints the day's slot grid.
func printSlots(slots []schedule.Slot) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "START\tBOOKED\tAVAILABLE")
	for _, s := range slots {
		available := "yes"
		if s.Disabled {
			available = "no"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Start.Format("15:04"), s.BookedCount, available)
	}
	return w.Flush()
}

// parseStartTime accepts RFC 3339 or the shorter local "2006-01-02 15:04".
func parseStartTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q, want RFC 3339 or \"YYYY-MM-DD HH:MM\"", s)
	}
	return t, nil
}
