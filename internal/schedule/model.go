// Package schedule books expert consultations: 45-minute meetings with a
// 15-minute buffer before the expert's next call.
package schedule

import "time"

const (
	// MeetingDuration is fixed for every consultation.
	MeetingDuration = 45 * time.Minute

	// Buffer is the gap an expert needs after a meeting before the next
	// one can start.
	Buffer = 15 * time.Minute

	// blockDuration is the span an expert is considered occupied per
	// meeting: the meeting itself plus the trailing buffer.
	blockDuration = MeetingDuration + Buffer
)

// Meeting statuses. Meetings are created as StatusScheduled; the other
// values exist for records written by external tools.
const (
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Expert is a schedulable staff member. Email is the key.
type Expert struct {
	Email string `yaml:"email" json:"email"`
	Name  string `yaml:"name" json:"name"`
}

// Meeting is one booked consultation.
type Meeting struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"client_id"`
	ClientName      string    `json:"client_name"`
	ExpertEmail     string    `json:"expert_email"`
	ExpertName      string    `json:"expert_name,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration"`
	Status          string    `json:"status"`
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// blockEnd returns when the expert becomes free again after this meeting.
func (m *Meeting) blockEnd() time.Time {
	return m.StartTime.Add(blockDuration)
}

// overlaps reports whether two half-open intervals [a1,a2) and [b1,b2)
// intersect.
func overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// conflictsWith reports whether a candidate slot starting at start would
// collide with this meeting's occupied block for the same expert.
func (m *Meeting) conflictsWith(start time.Time) bool {
	return overlaps(m.StartTime, m.blockEnd(), start, start.Add(blockDuration))
}
