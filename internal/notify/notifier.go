package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/propdesk/propdesk/internal/schedule"
)

// EventCreator is satisfied by CalendarService. Split out so the notifier
// works without calendar credentials.
type EventCreator interface {
	CreateEvent(ctx context.Context, m *schedule.Meeting) (string, error)
}

// EventRecorder stores the calendar event reference on the meeting.
type EventRecorder interface {
	SetCalendarEventID(id, eventID string) error
}

// NoteWriter appends a note to the CRM lead. Implemented by crm.Client.
type NoteWriter interface {
	UpdateNote(leadID, note string) error
}

// Notifier fans a booked meeting out to email and calendar. Every failure
// becomes a warning string; the meeting is already committed and stays
// booked no matter what happens here.
type Notifier struct {
	smtp     SMTPConfig
	clientTo string
	calendar EventCreator
	recorder EventRecorder
	notes    NoteWriter
}

// NewNotifier creates a notifier. calendar and notes may be nil when those
// integrations are not configured; clientTo is the address confirmations go
// to when the client has no email on file.
func NewNotifier(smtp SMTPConfig, clientTo string, calendar EventCreator, recorder EventRecorder, notes NoteWriter) *Notifier {
	return &Notifier{smtp: smtp, clientTo: clientTo, calendar: calendar, recorder: recorder, notes: notes}
}

// MeetingBooked runs the side effects for a freshly booked meeting and
// returns warnings for whatever failed.
func (n *Notifier) MeetingBooked(ctx context.Context, m *schedule.Meeting) []string {
	var warnings []string

	if n.smtp.IsConfigured() {
		subject, body := FormatConfirmation(m)
		to := []string{m.ExpertEmail}
		if n.clientTo != "" {
			to = append(to, n.clientTo)
		}
		if err := Send(n.smtp, to, subject, body); err != nil {
			slog.Warn("confirmation email failed", "meeting_id", m.ID, "error", err)
			warnings = append(warnings, fmt.Sprintf("confirmation email failed: %v", err))
		}
	}

	if n.calendar != nil {
		eventID, err := n.calendar.CreateEvent(ctx, m)
		if err != nil {
			slog.Warn("calendar event failed", "meeting_id", m.ID, "error", err)
			warnings = append(warnings, fmt.Sprintf("calendar event failed: %v", err))
		} else if n.recorder != nil {
			if err := n.recorder.SetCalendarEventID(m.ID, eventID); err != nil {
				slog.Warn("recording calendar event id failed", "meeting_id", m.ID, "error", err)
				warnings = append(warnings, fmt.Sprintf("recording calendar event failed: %v", err))
			} else {
				m.CalendarEventID = eventID
			}
		}
	}

	if n.notes != nil {
		note := fmt.Sprintf("Consultation booked for %s with %s",
			m.StartTime.Format("2 Jan 2006 3:04 PM"), m.ExpertEmail)
		if err := n.notes.UpdateNote(m.ClientID, note); err != nil {
			slog.Warn("CRM note failed", "meeting_id", m.ID, "error", err)
			warnings = append(warnings, fmt.Sprintf("CRM note failed: %v", err))
		}
	}

	return warnings
}
