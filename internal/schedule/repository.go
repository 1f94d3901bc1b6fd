package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository provides meeting storage.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a meeting repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const meetingColumns = `id, client_id, client_name, expert_email, expert_name,
	start_time, end_time, duration_min, status, calendar_event_id, created_at`

// ErrSlotTaken is returned by Book when the expert picked up a conflicting
// meeting between the availability check and the insert.
var ErrSlotTaken = fmt.Errorf("slot no longer available")

// Book inserts the meeting after re-checking the expert's calendar inside an
// immediate transaction. Two concurrent bookings for the same expert and
// slot serialize on the write lock; the loser gets ErrSlotTaken.
func (r *Repository) Book(ctx context.Context, m *Meeting) error {
	// Stored timestamps are compared as text by SQLite; a zone offset in
	// the input would defeat the overlap checks below.
	m.StartTime = m.StartTime.UTC()
	m.EndTime = m.EndTime.UTC()

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	// Re-check under the write lock. Any scheduled meeting whose occupied
	// block overlaps the candidate's makes the slot unavailable.
	var conflicts int
	err = conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM meetings
		 WHERE expert_email = ? AND status = ?
		   AND start_time > ? AND start_time < ?`,
		m.ExpertEmail, StatusScheduled,
		m.StartTime.Add(-blockDuration), m.StartTime.Add(blockDuration),
	).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("checking conflicts: %w", err)
	}
	if conflicts > 0 {
		return ErrSlotTaken
	}

	_, err = conn.ExecContext(ctx,
		`INSERT INTO meetings
			(id, client_id, client_name, expert_email, expert_name,
			 start_time, end_time, duration_min, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ClientID, m.ClientName, m.ExpertEmail, m.ExpertName,
		m.StartTime, m.EndTime, m.DurationMinutes, m.Status,
	)
	if err != nil {
		return fmt.Errorf("inserting meeting: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("committing meeting: %w", err)
	}
	committed = true

	return nil
}

// GetByID returns one meeting.
func (r *Repository) GetByID(id string) (*Meeting, error) {
	query := fmt.Sprintf("SELECT %s FROM meetings WHERE id = ?", meetingColumns)
	m, err := scanMeeting(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("meeting %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying meeting %s: %w", id, err)
	}
	return m, nil
}

// ListByExpert returns an expert's scheduled meetings starting at or after
// from, soonest first.
func (r *Repository) ListByExpert(expertEmail string, from time.Time) ([]*Meeting, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM meetings
		 WHERE expert_email = ? AND status = ? AND start_time >= ?
		 ORDER BY start_time`, meetingColumns)
	return r.queryMeetings(query, expertEmail, StatusScheduled, from.UTC())
}

// ListBetween returns all scheduled meetings with start times in [from, to),
// across experts, soonest first.
func (r *Repository) ListBetween(from, to time.Time) ([]*Meeting, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM meetings
		 WHERE status = ? AND start_time >= ? AND start_time < ?
		 ORDER BY start_time`, meetingColumns)
	return r.queryMeetings(query, StatusScheduled, from.UTC(), to.UTC())
}

// RelevantTo returns scheduled meetings whose occupied block could overlap a
// candidate slot at start, across all experts.
func (r *Repository) RelevantTo(start time.Time) ([]*Meeting, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM meetings
		 WHERE status = ? AND start_time > ? AND start_time < ?
		 ORDER BY start_time`, meetingColumns)
	start = start.UTC()
	return r.queryMeetings(query, StatusScheduled, start.Add(-blockDuration), start.Add(blockDuration))
}

// SetCalendarEventID records the external calendar reference after the event
// is created.
func (r *Repository) SetCalendarEventID(id, eventID string) error {
	result, err := r.db.Exec(
		"UPDATE meetings SET calendar_event_id = ? WHERE id = ?", eventID, id,
	)
	if err != nil {
		return fmt.Errorf("updating calendar event id: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("meeting %s not found", id)
	}

	return nil
}

func (r *Repository) queryMeetings(query string, args ...interface{}) ([]*Meeting, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing meetings: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var meetings []*Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning meeting: %w", err)
		}
		meetings = append(meetings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meetings: %w", err)
	}

	return meetings, nil
}

func scanMeeting(row interface{ Scan(...interface{}) error }) (*Meeting, error) {
	var m Meeting
	err := row.Scan(
		&m.ID, &m.ClientID, &m.ClientName, &m.ExpertEmail, &m.ExpertName,
		&m.StartTime, &m.EndTime, &m.DurationMinutes, &m.Status,
		&m.CalendarEventID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
