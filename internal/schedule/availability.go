package schedule

import (
	"fmt"
	"time"
)

const slotGranularity = 15 * time.Minute

// Window bounds the daily slot grid. Hours are in the location of the date
// passed to SlotsForDate.
type Window struct {
	OpenHour  int
	CloseHour int
}

// DefaultWindow is the consultation day: first slot 10:00, last meeting
// ends by 19:00.
var DefaultWindow = Window{OpenHour: 10, CloseHour: 19}

// Slot is one candidate start time with its booking state for the UI.
type Slot struct {
	Start       time.Time `json:"start"`
	BookedCount int       `json:"booked_count"`
	Disabled    bool      `json:"disabled"`
}

// SlotsForDate enumerates candidate slots for the given day at 15-minute
// granularity. BookedCount is the number of distinct experts whose existing
// meetings overlap the slot; a slot is disabled when every expert is booked
// or the slot start is not in the future.
func (s *Scheduler) SlotsForDate(date time.Time, window Window) ([]Slot, error) {
	if window.OpenHour >= window.CloseHour {
		return nil, fmt.Errorf("invalid window %d:00-%d:00", window.OpenHour, window.CloseHour)
	}

	year, month, day := date.Date()
	open := time.Date(year, month, day, window.OpenHour, 0, 0, 0, date.Location())
	close := time.Date(year, month, day, window.CloseHour, 0, 0, 0, date.Location())

	// One query covers the whole day plus the buffer tail of meetings that
	// started before opening.
	meetings, err := s.repo.ListBetween(open.Add(-blockDuration), close)
	if err != nil {
		return nil, fmt.Errorf("loading meetings: %w", err)
	}

	now := s.now()
	var slots []Slot
	for start := open; !start.Add(MeetingDuration).After(close); start = start.Add(slotGranularity) {
		booked := distinctBookedExperts(start, meetings)
		slots = append(slots, Slot{
			Start:       start,
			BookedCount: booked,
			Disabled:    booked >= len(s.experts) || !start.After(now),
		})
	}

	return slots, nil
}

// distinctBookedExperts counts experts with a meeting conflicting at start.
func distinctBookedExperts(start time.Time, meetings []*Meeting) int {
	seen := make(map[string]bool)
	for _, m := range meetings {
		if m.conflictsWith(start) {
			seen[m.ExpertEmail] = true
		}
	}
	return len(seen)
}
