package notify

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/propdesk/propdesk/internal/schedule"
)

// CalendarService creates meeting events on the shared experts calendar.
type CalendarService struct {
	srv        *calendar.Service
	calendarID string
}

// NewCalendarService builds a calendar client from a service-account
// credentials JSON file.
func NewCalendarService(ctx context.Context, credentialsPath, calendarID string) (*CalendarService, error) {
	credBytes, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading calendar credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, credBytes, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar credentials: %w", err)
	}

	srv, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("initializing calendar service: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}

	return &CalendarService{srv: srv, calendarID: calendarID}, nil
}

// CreateEvent inserts a calendar event for the meeting and returns the
// event id.
func (c *CalendarService) CreateEvent(ctx context.Context, m *schedule.Meeting) (string, error) {
	event := &calendar.Event{
		Summary:     fmt.Sprintf("Consultation: %s", m.ClientName),
		Description: fmt.Sprintf("Property consultation with %s (client %s)", m.ClientName, m.ClientID),
		Start: &calendar.EventDateTime{
			DateTime: m.StartTime.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: m.EndTime.Format(time.RFC3339),
		},
		Attendees: []*calendar.EventAttendee{
			{Email: m.ExpertEmail},
		},
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("inserting calendar event: %w", err)
	}

	return created.Id, nil
}
